package main

import (
	"fmt"
	"strconv"

	"github.com/itisl2220/ldconsole"
	"github.com/itisl2220/ldconsole/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newController builds the controller used by every subcommand.
// Tests replace it with a stub.
var newController = func(cfg *config.Config, log logrus.FieldLogger) ldconsole.Controller {
	return ldconsole.New(cfg.Dir,
		ldconsole.WithTimeout(cfg.Timeout),
		ldconsole.WithPollInterval(cfg.PollInterval),
		ldconsole.WithLogger(log),
	)
}

// cli carries state shared by the subcommands of one invocation
type cli struct {
	v    *viper.Viper
	cfg  *config.Config
	log  *logrus.Logger
	ctrl ldconsole.Controller
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:   "ldctl [command]",
		Short: "ldctl: control LDPlayer instances",
		Long: `ldctl drives the ldconsole.exe manager of an LDPlayer installation to
list emulator instances and start or stop them by index.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP(config.KeyConfig, "c", "", "config file (default is $XDG_CONFIG_HOME/ldctl/config.yaml)")
	flags.StringP(config.KeyDir, "d", "", "LDPlayer installation directory (env LDCTL_DIR)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Duration(config.KeyTimeout, 0, "timeout for each ldconsole call, 0 for none")
	_ = c.v.BindPFlag(config.KeyConfig, flags.Lookup(config.KeyConfig))
	_ = c.v.BindPFlag(config.KeyDir, flags.Lookup(config.KeyDir))
	_ = c.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = c.v.BindPFlag(config.KeyTimeout, flags.Lookup(config.KeyTimeout))

	root.AddCommand(
		newListCmd(c),
		newControlCmd(c, "launch", "Start the instance with the given index", ldconsole.Controller.Launch, true),
		newControlCmd(c, "quit", "Stop the instance with the given index", ldconsole.Controller.Quit, false),
		newControlCmd(c, "reboot", "Reboot the instance with the given index", ldconsole.Controller.Reboot, true),
		newControlCmd(c, "restart", "Quit and launch the instance with the given index", ldconsole.Controller.Restart, true),
		newRunningCmd(c),
		newWatchCmd(c),
		newVersionCmd(),
	)

	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	c.log.SetOutput(cmd.ErrOrStderr())
	c.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if !needsInstall(cmd) {
		return nil
	}

	if err := config.Init(c.v); err != nil {
		return err
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log.SetLevel(cfg.Level())

	c.ctrl = newController(cfg, c.log.WithField("dir", cfg.Dir))
	c.log.WithField("console", ldconsole.ConsolePath(cfg.Dir)).Debug("using ldconsole")
	return nil
}

// needsInstall reports whether cmd drives ldconsole.exe. version, help and
// the completion commands run without config or an installation.
func needsInstall(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		switch cmd.Name() {
		case "version", "help", "completion",
			cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// parseIndex parses an instance index argument
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", arg, err)
	}
	if index < 0 {
		return 0, fmt.Errorf("invalid index %d: must not be negative", index)
	}
	return index, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ldctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := ldconsole.GetVersion()
			fmt.Fprintf(cmd.OutOrStdout(), "ldctl %s (%s, %s output)\n", info.Version, info.Executable, info.Encoding)
			return nil
		},
	}
}
