package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/keybind/internal/app"
	"github.com/dshills/keybind/internal/config"
)

// cli holds state shared by the subcommands.
type cli struct {
	cfgFile   string
	configDir string

	cfg *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "keybind",
		Short: "Inspect and customize keybindings",
		Long: `keybind resolves keystrokes to commands through a table of default
bindings, user overrides and when-clauses.

Use it to list the effective bindings, find conflicts, check what a key
sequence resolves to in a given context, and edit user overrides.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd.Flags())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file merged over the user config")
	flags.StringVar(&c.configDir, "config-dir", "", "user config directory (default is the OS config dir + /keybind)")
	flags.String("overrides", "", "user overrides file")
	flags.String("format", "", "overrides format: toml, json, yaml or bolt")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newListCmd(c))
	rootCmd.AddCommand(newConflictsCmd(c))
	rootCmd.AddCommand(newResolveCmd(c))
	rootCmd.AddCommand(newValidateCmd(c))
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newSetCmd(c))
	rootCmd.AddCommand(newUnsetCmd(c))
	rootCmd.AddCommand(newListenCmd(c))

	return rootCmd
}

// loadConfig reads configuration files and binds the global flags.
func (c *cli) loadConfig(flags *pflag.FlagSet) error {
	var opts []config.Option
	if c.configDir != "" {
		opts = append(opts, config.WithUserConfigDir(c.configDir))
	}
	if c.cfgFile != "" {
		opts = append(opts, config.WithConfigFile(c.cfgFile))
	}

	cfg := config.New(opts...)
	if err := cfg.Load(); err != nil {
		return err
	}
	if err := cfg.BindFlags(map[string]*pflag.Flag{
		config.KeyOverridesPath:   flags.Lookup("overrides"),
		config.KeyOverridesFormat: flags.Lookup("format"),
		config.KeyLogLevel:        flags.Lookup("log-level"),
	}); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// newApp bootstraps the engine from the loaded configuration.
func (c *cli) newApp(opts app.Options) (*app.Application, error) {
	opts.Config = c.cfg
	return app.New(opts)
}
