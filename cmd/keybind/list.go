package main

import (
	"fmt"
	"sort"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/dshills/keybind/internal/app"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/keymap"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		filter     string
		all        bool
		customized bool
		sorted     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the effective keybindings",
		Long: `List the effective keybindings in table order.

--filter takes a glob over command ids, with "." as the separator:
"edit.*" matches edit.copy but not edit.action.x; "edit.**" matches both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var g glob.Glob
			if filter != "" {
				var err error
				g, err = glob.Compile(filter, '.')
				if err != nil {
					return fmt.Errorf("invalid filter %q: %w", filter, err)
				}
			}

			application, err := c.newApp(app.Options{})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			bindings := application.Registry().Table().Bindings()
			if sorted {
				sort.SliceStable(bindings, func(i, j int) bool {
					return bindings[i].CommandID < bindings[j].CommandID
				})
			}

			t := newTable("COMMAND", "KEYBINDING", "WHEN", "SOURCE").
				style(1, keyStyle).
				style(2, dimStyle)
			n := 0
			for _, b := range filterBindings(bindings, g, all, customized) {
				kb := ""
				if b.HasKeybinding() {
					kb = key.Encode(b.EffectiveKeybinding())
				}
				t.add(b.CommandID, kb, b.EffectiveWhen(), string(b.Source()))
				n++
			}

			out := cmd.OutOrStdout()
			t.render(out)
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d bindings", n)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "glob over command ids, e.g. 'edit.*'")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include commands without a keybinding")
	cmd.Flags().BoolVar(&customized, "customized", false, "only commands with user overrides")
	cmd.Flags().BoolVar(&sorted, "sort", false, "sort by command id instead of table order")
	return cmd
}

// filterBindings applies the list filters. A nil glob matches everything.
func filterBindings(bindings []keymap.CommandBinding, g glob.Glob, all, customized bool) []keymap.CommandBinding {
	result := make([]keymap.CommandBinding, 0, len(bindings))
	for _, b := range bindings {
		if !all && !b.HasKeybinding() {
			continue
		}
		if customized && !b.IsCustomized() {
			continue
		}
		if g != nil && !g.Match(b.CommandID) {
			continue
		}
		result = append(result, b)
	}
	return result
}
