package store

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/keymap"
)

// ErrEmptyCommand is reported for records without a command id.
var ErrEmptyCommand = errors.New("record has no command id")

// Store persists the overrides map.
type Store interface {
	// Load returns the persisted overrides. A missing or corrupt source
	// yields an empty map.
	Load() (map[string]keymap.Override, error)

	// Save replaces the persisted overrides.
	Save(overrides map[string]keymap.Override) error
}

// Record is the persisted form of one override.
type Record struct {
	Command string  `json:"command" toml:"command" yaml:"command"`
	Key     *string `json:"key,omitempty" toml:"key,omitempty" yaml:"key,omitempty"`
	When    *string `json:"when,omitempty" toml:"when,omitempty" yaml:"when,omitempty"`
}

// NewRecord converts an override to its persisted form.
func NewRecord(commandID string, o keymap.Override) Record {
	r := Record{Command: commandID}
	switch o.Keybinding.State {
	case keymap.Set:
		s := key.Encode(o.Keybinding.Keybinding)
		r.Key = &s
	case keymap.Removed:
		s := ""
		r.Key = &s
	}
	if o.When != nil {
		w := *o.When
		r.When = &w
	}
	return r
}

// Override converts the record back. It returns the command id the record
// applies to.
func (r Record) Override() (string, keymap.Override, error) {
	id := strings.TrimSpace(r.Command)
	removed := strings.HasPrefix(id, "-")
	id = strings.TrimPrefix(id, "-")
	if id == "" {
		return "", keymap.Override{}, ErrEmptyCommand
	}

	var o keymap.Override
	switch {
	case removed:
		o.Keybinding = keymap.RemoveKeybinding()
	case r.Key == nil:
		o.Keybinding = keymap.InheritKeybinding()
	case strings.TrimSpace(*r.Key) == "":
		o.Keybinding = keymap.RemoveKeybinding()
	default:
		kb, err := key.Decode(*r.Key)
		if err != nil {
			return id, keymap.Override{}, errors.Wrapf(err, "command %s", id)
		}
		o.Keybinding = keymap.SetKeybinding(kb)
	}
	if r.When != nil {
		o = o.WithWhen(*r.When)
	}
	return id, o, nil
}

// Records converts an overrides map to records sorted by command id.
// Empty overrides are omitted.
func Records(overrides map[string]keymap.Override) []Record {
	ids := make([]string, 0, len(overrides))
	for id, o := range overrides {
		if o.IsEmpty() {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]Record, len(ids))
	for i, id := range ids {
		records[i] = NewRecord(id, overrides[id])
	}
	return records
}

// Overrides converts records to an overrides map. Malformed records are
// skipped and reported; a later record for the same command wins.
func Overrides(records []Record) (map[string]keymap.Override, []error) {
	result := make(map[string]keymap.Override, len(records))
	var errs []error
	for i, r := range records {
		id, o, err := r.Override()
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "record %d", i))
			continue
		}
		result[id] = o
	}
	return result, errs
}

// Option configures a store.
type Option func(*options)

type options struct {
	logger logrus.FieldLogger
}

// WithLogger sets the logger used for load warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	o := options{logger: discard}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// warnRecords logs skipped records.
func warnRecords(logger logrus.FieldLogger, source string, errs []error) {
	for _, err := range errs {
		logger.WithError(err).WithField("source", source).Warn("skipping override")
	}
}
