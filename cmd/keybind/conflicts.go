package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keybind/internal/app"
	"github.com/dshills/keybind/internal/input/keymap"
)

func newConflictsCmd(c *cli) *cobra.Command {
	var (
		prefix bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Report keybindings shared by several commands",
		Long: `Report every keybinding bound to two or more commands.

When-clauses are not compared: commands whose clauses never hold together
are still listed. With --prefix, single keystrokes that also start a chord
are reported too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := c.newApp(app.Options{})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			table := application.Registry().Table()
			conflicts := keymap.DetectConflicts(table)
			if prefix {
				conflicts = append(conflicts, keymap.DetectPrefixConflicts(table)...)
			}

			out := cmd.OutOrStdout()
			if len(conflicts) == 0 {
				fmt.Fprintln(out, successText("No conflicts"))
				return nil
			}

			t := newTable("KEYBINDING", "TYPE", "COMMAND", "WHEN", "SOURCE").
				style(0, keyStyle).
				style(3, dimStyle)
			for _, conflict := range conflicts {
				for i, m := range conflict.Commands {
					kb, typ := "", ""
					if i == 0 {
						kb, typ = conflict.Keybinding, string(conflict.Type)
					}
					t.add(kb, typ, m.Command, m.When, string(m.Source))
				}
			}
			t.render(out)
			fmt.Fprintln(out, warnText(fmt.Sprintf("%d conflicts", len(conflicts))))

			if strict {
				return fmt.Errorf("%d conflicts found", len(conflicts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prefix, "prefix", false, "also report keystrokes shadowed by chords")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when conflicts exist")
	return cmd
}
