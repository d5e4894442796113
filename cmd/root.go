package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/securescore/internal/adapters/repository"
	service "github.com/okian/securescore/internal/app"
	"github.com/okian/securescore/internal/config"
	"github.com/okian/securescore/pkg/logger"
)

// cli holds state shared by all subcommands.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	historyPath string
	logLevel    string

	cfg *config.Config
	log logger.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "securescore",
		Short: "Record a cloud secure score over time and report how it changes",
		Long: `securescore appends one capture of the secure score to a JSON history
file per run and reports the change against the previous capture.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	flags.StringVar(&c.historyPath, "history", "", "history file, overrides history_path")
	flags.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		c.ingestCmd(),
		c.showCmd(),
		c.validateCmd(),
		c.serveCmd(),
	)
	return root
}

// setup loads configuration and initializes logging. Logs go to stderr so
// stdout carries only results.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}
	if c.historyPath != "" {
		cfg.HistoryPath = c.historyPath
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitWith(c.stderr, cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger.Get()
	return nil
}

func (c *cli) service() *service.Service {
	store := repository.NewFileStore(c.cfg.HistoryPath, repository.WithLocking(c.cfg.Lock))
	return service.New(store,
		service.WithLogger(c.log),
		service.WithAllowComments(c.cfg.AllowComments),
		service.WithPrettyOutput(c.cfg.Pretty),
	)
}
