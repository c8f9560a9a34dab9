package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keybind/internal/app"
	"github.com/dshills/keybind/internal/input/chord"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

func newResolveCmd(c *cli) *cobra.Command {
	var contextFlags []string

	cmd := &cobra.Command{
		Use:   "resolve <keybinding>",
		Short: "Show what a key sequence resolves to",
		Long: `Feed a key sequence through a chord session and report the outcome of
each keystroke.

Context values are given as name=value; "true" and "false" become booleans,
numbers become numbers, anything else is a string. A bare name is true.`,
		Example: `  keybind resolve Ctrl+s
  keybind resolve "Ctrl+k then Ctrl+c" --ctx editorTextFocus
  keybind resolve Ctrl+z --ctx editorTextFocus --ctx editorReadonly=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := key.Decode(args[0])
			if err != nil {
				return err
			}
			ctx, err := parseContext(contextFlags)
			if err != nil {
				return err
			}

			application, err := c.newApp(app.Options{})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			table := application.Registry().Table()
			session := chord.NewSession(chord.WithScheduler(chord.NewManualScheduler(time.Now())))

			out := cmd.OutOrStdout()
			var last chord.Result
			for _, ks := range kb {
				last = session.OnKeystroke(ks, table, ctx)
				fmt.Fprintf(out, "%-20s %s\n", keyStyle.Render(ks.String()), describeResult(last))
			}

			if last.Outcome == chord.Matched {
				if matches := table.Matches(last.Keystrokes, ctx); len(matches) > 1 {
					ids := make([]string, len(matches))
					for i, m := range matches {
						ids[i] = m.CommandID
					}
					fmt.Fprintln(out, warnText("also active: "+strings.Join(ids[1:], ", ")))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&contextFlags, "ctx", nil, "context value name[=value] (repeatable)")
	return cmd
}

func describeResult(r chord.Result) string {
	switch r.Outcome {
	case chord.Matched:
		return successText(r.CommandID)
	case chord.Pending:
		return dimStyle.Render("pending")
	default:
		return warnText(r.Outcome.String())
	}
}

// parseContext builds a context snapshot from name[=value] pairs.
func parseContext(pairs []string) (when.Snapshot, error) {
	snap := when.Snapshot{}
	for _, pair := range pairs {
		name, raw, hasValue := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid context value %q", pair)
		}
		if !hasValue {
			snap.Set(name, when.Bool(true))
			continue
		}
		snap.Set(name, parseValue(raw))
	}
	return snap, nil
}

func parseValue(raw string) when.Value {
	switch raw {
	case "true":
		return when.Bool(true)
	case "false":
		return when.Bool(false)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return when.Number(n)
	}
	return when.String(raw)
}
