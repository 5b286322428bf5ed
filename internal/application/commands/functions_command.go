package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/deployrt/scmcore/internal/functions"
	"github.com/deployrt/scmcore/internal/jsonvalue"
)

// FunctionsCommands groups the function metadata manager operations (C5)
// and the triggers-sync entry point (C6) under a "functions" subcommand.
func FunctionsCommands() *cli.Command {
	nameFlag := &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    "function name",
		Required: true,
	}

	return &cli.Command{
		Name:  "functions",
		Usage: "inspect and mutate function metadata",
		Commands: []*cli.Command{
			{
				Name: "list",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					envs, err := deps.Functions.List(ctx)
					if err != nil {
						return err
					}
					for _, env := range envs {
						fmt.Fprintf(cmd.Writer, "%s disabled=%v\n", env.Name, env.Disabled())
					}
					return nil
				},
			},
			{
				Name:  "get",
				Flags: []cli.Flag{nameFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					env, err := deps.Functions.Get(ctx, cmd.String("name"))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.Writer, "%s %s\n", env.Name, env.SelfHref)
					return nil
				},
			},
			{
				Name: "delete",
				Flags: []cli.Flag{nameFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					return deps.Functions.Delete(ctx, cmd.String("name"))
				},
			},
			{
				Name: "set-config",
				Flags: []cli.Flag{
					nameFlag,
					&cli.StringFlag{Name: "config", Aliases: []string{"j"}, Required: true, Usage: "raw JSON config document"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					cfg, err := jsonvalue.Parse([]byte(cmd.String("config")))
					if err != nil {
						return fmt.Errorf("invalid config JSON: %w", err)
					}
					env, err := deps.Functions.CreateOrUpdate(ctx, cmd.String("name"), functions.UpdateRequest{Config: cfg})
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.Writer, "%s updated\n", env.Name)
					return nil
				},
			},
			{
				Name: "sync-triggers",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					return deps.Functions.SyncTriggers(ctx)
				},
			},
		},
	}
}
