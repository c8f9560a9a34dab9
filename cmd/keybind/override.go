package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keybind/internal/app"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/keymap"
	"github.com/dshills/keybind/internal/input/when"
)

func newSetCmd(c *cli) *cobra.Command {
	var (
		whenClause string
		setWhen    bool
	)

	cmd := &cobra.Command{
		Use:   "set <command> <keybinding>",
		Short: "Bind a command to a keybinding in the user overrides",
		Example: `  keybind set file.save "Ctrl+Alt+s"
  keybind set git.commit "Ctrl+k then Ctrl+g" --when editorTextFocus`,
		Args: cobra.ExactArgs(2),
		PreRun: func(cmd *cobra.Command, args []string) {
			setWhen = cmd.Flags().Changed("when")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := key.Decode(args[1])
			if err != nil {
				return err
			}
			o := keymap.Override{Keybinding: keymap.SetKeybinding(kb)}
			if setWhen {
				if whenClause != "" {
					if _, err := when.Parse(whenClause); err != nil {
						return err
					}
				}
				o = o.WithWhen(whenClause)
			}
			return saveOverride(c, cmd, args[0], o)
		},
	}

	cmd.Flags().StringVar(&whenClause, "when", "", "when-clause; an empty value makes the command always active")
	return cmd
}

func newUnsetCmd(c *cli) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "unset <command>",
		Short: "Revert a command to its default keybinding",
		Long: `Revert a command to its default keybinding and when-clause.

With --remove the command keeps no keybinding at all, even if it has a
default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := keymap.Override{}
			if remove {
				o.Keybinding = keymap.RemoveKeybinding()
			}
			return saveOverride(c, cmd, args[0], o)
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "remove the keybinding instead of reverting it")
	return cmd
}

func saveOverride(c *cli, cmd *cobra.Command, commandID string, o keymap.Override) error {
	application, err := c.newApp(app.Options{})
	if err != nil {
		return err
	}
	defer application.Shutdown()

	rejected, err := application.SetOverride(commandID, o)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, err := range rejected {
		fmt.Fprintln(out, warnText(err.Error()))
	}
	if !application.Registry().Table().Contains(commandID) {
		fmt.Fprintln(out, warnText(fmt.Sprintf("%s has no default binding; the override is saved but unused", commandID)))
	}

	b, _ := application.Registry().Table().Binding(commandID)
	kb := "(none)"
	if b.HasKeybinding() {
		kb = key.Encode(b.EffectiveKeybinding())
	}
	fmt.Fprintf(out, "%s %s = %s\n", successText("saved"), commandID, keyStyle.Render(kb))
	return nil
}
