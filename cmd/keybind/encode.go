package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keybind/internal/input/key"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <keybinding>...",
		Short: "Print the canonical and display forms of keybindings",
		Example: `  keybind encode shift+ctrl+s
  keybind encode "cmd+k cmd+s"`,
		Args: cobra.MinimumNArgs(1),
		// Encoding needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			t := newTable("INPUT", "CANONICAL", "DISPLAY").style(1, keyStyle)
			failed := 0
			for _, arg := range args {
				kb, err := key.Decode(arg)
				if err != nil {
					t.add(arg, errorText("invalid"), err.Error())
					failed++
					continue
				}
				t.add(arg, key.Encode(kb), key.FormatKeybindingDisplay(kb))
			}
			t.render(out)
			if failed > 0 {
				return fmt.Errorf("%d invalid keybindings", failed)
			}
			return nil
		},
	}
	return cmd
}
