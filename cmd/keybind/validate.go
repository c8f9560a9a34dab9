package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/keybind/internal/app"
	"github.com/dshills/keybind/internal/input/keymap"
	plua "github.com/dshills/keybind/internal/plugin/lua"
)

func newValidateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check keymap files, plugin scripts and the configured table",
		Long: `Check that every binding decodes and every when-clause parses.

With file arguments, each keymap file (.toml, .json, .yaml) or plugin
script (.lua) is checked on its own. Without arguments, the configured
defaults and overrides are loaded and the resulting table is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var problems int
			if len(args) > 0 {
				for _, path := range args {
					problems += validateFile(out, path)
				}
			} else {
				n, err := validateConfigured(c, out)
				if err != nil {
					return err
				}
				problems = n
			}

			if problems > 0 {
				return fmt.Errorf("validation failed: %d problems", problems)
			}
			fmt.Fprintln(out, successText("OK"))
			return nil
		},
	}
	return cmd
}

func validateFile(out io.Writer, path string) int {
	var (
		km  *keymap.Keymap
		err error
	)
	if filepath.Ext(path) == ".lua" {
		km, err = plua.LoadScript(path)
	} else {
		km, err = keymap.NewLoader(nil).LoadFile(path)
	}
	if err == nil {
		err = km.Validate()
	}
	if err != nil {
		fmt.Fprintf(out, "%s %s\n%s\n", errorText("FAIL"), path, err)
		return 1
	}
	fmt.Fprintf(out, "%s %s (%d bindings)\n", successText("ok"), path, len(km.Bindings))
	return 0
}

// validateConfigured checks the table built from the configuration:
// overrides the table rejected and when-clauses that do not parse.
func validateConfigured(c *cli, out io.Writer) (int, error) {
	application, err := c.newApp(app.Options{})
	if err != nil {
		return 0, err
	}
	defer application.Shutdown()

	registry := application.Registry()
	problems := 0
	for _, err := range registry.Rebuild(registry.Overrides()) {
		fmt.Fprintf(out, "%s %v\n", errorText("rejected"), err)
		problems++
	}
	for _, d := range registry.Table().Diagnostics() {
		fmt.Fprintf(out, "%s %s\n", errorText("invalid"), d)
		problems++
	}
	return problems, nil
}
