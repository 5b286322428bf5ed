package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// RepoCommands groups the version-control driver operations (C1-C4) under
// a single "repo" subcommand, one Repository per --name working
// directory.
func RepoCommands() *cli.Command {
	nameFlag := &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    "repository name, resolved under the configured working directory root",
		Required: true,
	}

	return &cli.Command{
		Name:  "repo",
		Usage: "inspect and mutate a repository working directory",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Flags: []cli.Flag{nameFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					return deps.RepositoryFor(cmd.String("name")).Init(ctx)
				},
			},
			{
				Name:  "status",
				Flags: []cli.Flag{nameFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					seq, err := deps.RepositoryFor(cmd.String("name")).Status(ctx)
					if err != nil {
						return err
					}
					for {
						fs, ok, err := seq.Next()
						if err != nil {
							return err
						}
						if !ok {
							break
						}
						fmt.Fprintf(cmd.Writer, "%s %s\n", fs.Type, fs.Path)
					}
					return nil
				},
			},
			{
				Name: "add",
				Flags: []cli.Flag{
					nameFlag,
					&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					return deps.RepositoryFor(cmd.String("name")).Add(ctx, cmd.String("path"))
				},
			},
			{
				Name: "commit",
				Flags: []cli.Flag{
					nameFlag,
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					detail, err := deps.RepositoryFor(cmd.String("name")).Commit(ctx, cmd.String("message"), cmd.String("author"))
					if err != nil {
						return err
					}
					if detail == nil {
						fmt.Fprintln(cmd.Writer, "working directory clean")
						return nil
					}
					fmt.Fprintf(cmd.Writer, "%s %s\n", detail.ChangeSet.ID, detail.ChangeSet.Message)
					return nil
				},
			},
			{
				Name: "checkout",
				Flags: []cli.Flag{
					nameFlag,
					&cli.StringFlag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					return deps.RepositoryFor(cmd.String("name")).Checkout(ctx, cmd.String("id"))
				},
			},
			{
				Name: "show",
				Flags: []cli.Flag{
					nameFlag,
					&cli.StringFlag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					detail, err := deps.RepositoryFor(cmd.String("name")).Show(ctx, cmd.String("id"))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.Writer, "%s %s (+%d -%d)\n",
						detail.ChangeSet.ID, detail.ChangeSet.Message, detail.TotalInsertion, detail.TotalDeletion)
					return nil
				},
			},
			{
				Name:  "log",
				Flags: []cli.Flag{nameFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					seq, err := deps.RepositoryFor(cmd.String("name")).Log(ctx)
					if err != nil {
						return err
					}
					for {
						cs, ok, err := seq.Next()
						if err != nil {
							return err
						}
						if !ok {
							break
						}
						fmt.Fprintf(cmd.Writer, "%s %s %s\n", cs.ID, cs.AuthorName, cs.Message)
					}
					return nil
				},
			},
			{
				Name:  "diff",
				Flags: []cli.Flag{nameFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, deps, _, err := loadDeps(cmd)
					if err != nil {
						return err
					}
					detail, err := deps.RepositoryFor(cmd.String("name")).Diff(ctx)
					if err != nil {
						return err
					}
					if detail == nil {
						fmt.Fprintln(cmd.Writer, "no changes")
						return nil
					}
					for _, path := range detail.OrderedPaths() {
						fi := detail.Files[path]
						fmt.Fprintf(cmd.Writer, "%s %s +%d -%d\n", fi.Type, path, fi.Insertions, fi.Deletions)
					}
					return nil
				},
			},
		},
	}
}
