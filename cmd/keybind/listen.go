package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/keybind/internal/app"
	"github.com/dshills/keybind/internal/input"
	"github.com/dshills/keybind/internal/input/chord"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/term"
	"github.com/dshills/keybind/internal/input/when"
)

// quitKey ends a listen session.
var quitKey = key.Keystroke{Key: "q", Modifiers: key.ModCtrl}

func newListenCmd(c *cli) *cobra.Command {
	var contextFlags []string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Resolve live keystrokes from the terminal",
		Long: `Read keystrokes from the terminal and show what each one resolves to,
including pending chords and chord timeouts. Press Ctrl+q to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctxValues, err := parseContext(contextFlags)
			if err != nil {
				return err
			}

			application, err := c.newApp(app.Options{})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating terminal screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing terminal screen: %w", err)
			}
			defer screen.Fini()

			handler := application.Handler()
			handler.Context().Replace(ctxValues)

			view := newListenView(screen)
			return listen(context.Background(), screen, handler, view.show)
		},
	}

	cmd.Flags().StringArrayVar(&contextFlags, "ctx", nil, "context value name[=value] (repeatable)")
	return cmd
}

// listen feeds events from src into handler until the quit key or the end
// of input. report receives every result, including chord timeouts, which
// arrive on the timer goroutine with a zero keystroke.
func listen(ctx context.Context, src term.EventSource, handler *input.Handler, report func(key.Keystroke, chord.Result, string)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := handler.AddHook(input.FuncHook{
		PostKeystrokeFunc: func(ks key.Keystroke, res chord.Result, _ when.Context) {
			report(ks, res, handler.PendingKeys())
		},
	})
	defer handler.Hooks().Unregister(id)

	term.Pump(ctx, src, func(ev key.RawEvent) {
		ks := key.Normalize(ev)
		if ks.Equals(quitKey) {
			cancel()
			return
		}
		handler.HandleKeystroke(ks)
	}, nil)
	return nil
}

// listenView draws a scrolling log of resolutions.
type listenView struct {
	mu     sync.Mutex
	screen tcell.Screen
	lines  []string
}

func newListenView(screen tcell.Screen) *listenView {
	v := &listenView{screen: screen}
	v.draw("")
	return v
}

func (v *listenView) show(ks key.Keystroke, res chord.Result, pending string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lines = append(v.lines, formatResult(ks, res))
	v.draw(pending)
}

// formatResult renders one log line.
func formatResult(ks key.Keystroke, res chord.Result) string {
	label := key.FormatKeystrokeDisplay(ks)
	if res.Outcome == chord.TimedOut {
		label = key.FormatKeybindingDisplay(res.Keystrokes)
	}
	line := fmt.Sprintf("%-24s %s", label, res.Outcome)
	if res.Outcome == chord.Matched {
		line += "  " + res.CommandID
	}
	return line
}

func (v *listenView) draw(pending string) {
	v.screen.Clear()
	_, height := v.screen.Size()

	header := tcell.StyleDefault.Bold(true)
	drawText(v.screen, 0, 0, header, "keybind listen (Ctrl+q to quit)")

	status := "idle"
	if pending != "" {
		status = "pending: " + pending
	}
	drawText(v.screen, 0, 1, tcell.StyleDefault.Dim(true), status)

	start := 0
	if room := height - 3; room > 0 && len(v.lines) > room {
		start = len(v.lines) - room
	}
	for i, line := range v.lines[start:] {
		drawText(v.screen, 0, 3+i, tcell.StyleDefault, line)
	}
	v.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
