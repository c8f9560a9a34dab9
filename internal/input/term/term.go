// Package term converts tcell terminal events into raw key events.
package term

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keybind/internal/input/key"
)

// namedKeys maps tcell special keys to canonical key names. Ctrl+letter
// codes that alias Tab, Enter, Backspace and Escape resolve through this
// table first.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyArrowUp,
	tcell.KeyDown:       key.KeyArrowDown,
	tcell.KeyLeft:       key.KeyArrowLeft,
	tcell.KeyRight:      key.KeyArrowRight,
	tcell.KeyPause:      key.KeyPause,
	tcell.KeyPrint:      key.KeyPrintScreen,
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// RawEvent converts a tcell key event. It returns false for keys with no
// canonical name.
func RawEvent(ev *tcell.EventKey) (key.RawEvent, bool) {
	mods := ev.Modifiers()
	raw := key.RawEvent{
		CtrlKey:  mods&tcell.ModCtrl != 0,
		AltKey:   mods&tcell.ModAlt != 0,
		ShiftKey: mods&tcell.ModShift != 0,
		MetaKey:  mods&tcell.ModMeta != 0,
	}

	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		raw.Key = string(ev.Rune())
	case k == tcell.KeyBacktab:
		raw.Key = key.KeyTab
		raw.ShiftKey = true
	case k == tcell.KeyCtrlSpace:
		raw.Key = key.KeySpace
		raw.CtrlKey = true
	default:
		if name, ok := namedKeys[k]; ok {
			raw.Key = name
			break
		}
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			raw.Key = string(rune('a' + int(k-tcell.KeyCtrlA)))
			raw.CtrlKey = true
			break
		}
		return key.RawEvent{}, false
	}
	return raw, true
}

// Keystroke converts and normalizes a tcell key event.
func Keystroke(ev *tcell.EventKey) (key.Keystroke, bool) {
	raw, ok := RawEvent(ev)
	if !ok {
		return key.Keystroke{}, false
	}
	return key.Normalize(raw), true
}

// EventSource is the part of tcell.Screen a Pump reads from.
type EventSource interface {
	PollEvent() tcell.Event
}

// Pump reads key events from src and passes each converted event to fn
// until ctx is done or src stops producing events. Non-key events go to
// other, which may be nil. The polling goroutine exits once src returns
// nil, as a tcell.Screen does after Fini.
func Pump(ctx context.Context, src EventSource, fn func(key.RawEvent), other func(tcell.Event)) {
	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for {
			ev := src.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if kev, isKey := ev.(*tcell.EventKey); isKey {
				if raw, ok := RawEvent(kev); ok {
					fn(raw)
				}
				continue
			}
			if other != nil {
				other(ev)
			}
		}
	}
}
