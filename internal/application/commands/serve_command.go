package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/deployrt/scmcore/internal/server"
	"github.com/deployrt/scmcore/internal/transport/http/router"
	"github.com/deployrt/scmcore/pkg/logger"
)

// ServeCommand starts the HTTP server exposing C1-C6 over gin.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, _, log, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			srv := server.New(cfg, log)
			router.NewRouter(srv).RegisterRoutes()

			addr := cfg.ServerAddress()
			log.Info("listening", logger.String("addr", addr))
			return srv.Run(addr)
		},
	}
}
