package commands

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"

	"github.com/deployrt/scmcore/internal/config"
	"github.com/deployrt/scmcore/internal/infrastructure/otel"
	"github.com/deployrt/scmcore/internal/injectable"
	"github.com/deployrt/scmcore/pkg/logger"
)

// CommandRegistry assembles the full CLI command tree.
type CommandRegistry struct{}

// NewCommandRegistry returns a CommandRegistry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{}
}

// RegisterCLI returns the root *cli.Command, ready for Run.
func (*CommandRegistry) RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:                  "scmfnctl",
		Usage:                 "version control and function metadata control plane",
		Suggest:               true,
		EnableShellCompletion: true,
		Action:                RootCommand(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			RepoCommands(),
			FunctionsCommands(),
		},
	}
}

// RootCommand prints the banner shown when scmfnctl is run with no
// subcommand.
func RootCommand() cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cmd.Writer.Write([]byte("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"))
		cmd.Writer.Write([]byte("scmfnctl: repo/scm + function sync control plane\n"))
		cmd.Writer.Write([]byte("Use 'scmfnctl --help' to see available commands.\n"))
		cmd.Writer.Write([]byte("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"))
		return nil
	}
}

// loadDeps reads the --config flag off the root command, loads the
// configuration and wires the collaborators every subcommand needs.
// Subcommands own no state of their own; they load deps fresh per
// invocation, matching the CLI's one-shot process lifetime.
func loadDeps(cmd *cli.Command) (*config.Config, *injectable.Dependencies, *logger.Logger, error) {
	cfg, err := config.Load(cmd.Root().String("config"))
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	deps := injectable.LoadDependencies(cfg, log)
	return cfg, &deps, log, nil
}

// newLogger builds the process logger, teeing to an OTEL collector
// alongside the local console/file core when cfg.Logging.OTELEnabled is
// set. cfg.Logging.OutputPath selects the core: "stdout" (the default)
// keeps console output, any other non-empty path switches to a rotating
// file writer at that path.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:  cfg.Logging.Level,
		Output: logger.OutputConsole,
		Format: cfg.Logging.Format,
	}

	if path := cfg.Logging.OutputPath; path != "" && path != "stdout" {
		loggerCfg.Output = logger.OutputFile
		loggerCfg.FilePath = path
		loggerCfg.FileMaxSizeMB = 100
		loggerCfg.FileMaxBackups = 3
		loggerCfg.FileMaxAgeDays = 28
		loggerCfg.FileCompress = true
	}

	if !cfg.Logging.OTELEnabled {
		return logger.New(loggerCfg)
	}

	base, err := logger.New(loggerCfg)
	if err != nil {
		return nil, err
	}

	provider, err := otel.NewProvider(&otel.Config{
		Enabled:     true,
		Endpoint:    cfg.Logging.OTELEndpoint,
		ServiceName: "scmcore",
		Insecure:    true,
	})
	if err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	combined := otel.NewCombinedCore(base.Core(), provider, level)
	return logger.NewWithCore(loggerCfg, combined), nil
}
