package store

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/keybind/internal/input/keymap"
)

// ErrInvalidJSON is returned when an overrides file is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// jsonCodec reads keybindings.json leniently: the document is either a
// top-level array of records or an object with a "keybindings" array, and
// fields other than command, key and when are ignored.
type jsonCodec struct{}

// bindingsPath returns the gjson path of the record array in doc.
func bindingsPath(doc gjson.Result) string {
	if doc.IsObject() {
		return "keybindings"
	}
	return "@this"
}

func (jsonCodec) decode(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	list := doc.Get(bindingsPath(doc))
	if !list.IsArray() {
		if !list.Exists() {
			return nil, nil
		}
		return nil, errors.Wrap(ErrInvalidJSON, "keybindings is not an array")
	}

	var records []Record
	list.ForEach(func(_, entry gjson.Result) bool {
		records = append(records, recordFromJSON(entry))
		return true
	})
	return records, nil
}

func recordFromJSON(entry gjson.Result) Record {
	r := Record{Command: entry.Get("command").String()}
	if k := entry.Get("key"); k.Exists() {
		s := k.String()
		r.Key = &s
	}
	if w := entry.Get("when"); w.Exists() {
		s := w.String()
		r.When = &s
	}
	return r
}

func (jsonCodec) encode(records []Record) ([]byte, error) {
	data := []byte("[]")
	for _, r := range records {
		var err error
		data, err = sjson.SetBytes(data, "-1", r)
		if err != nil {
			return nil, err
		}
	}
	return pretty.Pretty(data), nil
}

// JSONStore keeps overrides in a keybindings.json style file.
type JSONStore struct {
	fileStore
}

// NewJSONStore creates a store for the JSON file at path.
func NewJSONStore(path string, opts ...Option) *JSONStore {
	return &JSONStore{fileStore: newFileStore(path, jsonCodec{}, opts)}
}

// SaveOne updates the record for one command in place, leaving every
// other entry and its formatting untouched. Duplicate records for the
// command are removed. An empty override deletes every record for it.
func (s *JSONStore) SaveOne(commandID string, o keymap.Override) error {
	data, err := s.read()
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("[]")
	}
	if !gjson.ValidBytes(data) {
		return errors.Wrapf(ErrInvalidJSON, "updating %s", s.path)
	}

	doc := gjson.ParseBytes(data)
	base := bindingsPath(doc)
	prefix := ""
	if base != "@this" {
		prefix = base + "."
		if !doc.Get(base).Exists() {
			data, err = sjson.SetRawBytes(data, base, []byte("[]"))
			if err != nil {
				return errors.Wrap(err, "creating keybindings array")
			}
			doc = gjson.ParseBytes(data)
		}
	}

	var matches []int
	for i, entry := range doc.Get(base).Array() {
		cmd := strings.TrimPrefix(entry.Get("command").String(), "-")
		if cmd == commandID {
			matches = append(matches, i)
		}
	}

	if o.IsEmpty() && len(matches) == 0 {
		return nil
	}

	// The last record wins on load: update it and drop earlier duplicates.
	keep := len(matches) - 1
	switch {
	case o.IsEmpty():
		keep = -1
	case keep < 0:
		data, err = sjson.SetBytes(data, prefix+"-1", NewRecord(commandID, o))
	default:
		data, err = sjson.SetBytes(data, prefix+strconv.Itoa(matches[keep]), NewRecord(commandID, o))
	}
	for i := len(matches) - 1; i >= 0 && err == nil; i-- {
		if i == keep {
			continue
		}
		data, err = sjson.DeleteBytes(data, prefix+strconv.Itoa(matches[i]))
	}
	if err != nil {
		return errors.Wrapf(err, "updating %s", commandID)
	}
	return writeFileAtomic(s.path, data)
}
