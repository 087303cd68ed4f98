package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Shutter/config"
	"Shutter/pkg/database"
	"Shutter/pkg/log"
	"Shutter/pkg/server"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)
	log.Setup(cfg.Debug())

	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "photo sharing api",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					appProvider, err := InitServer(cfg)
					if err != nil {
						return err
					}
					return server.Run(ctx, appProvider)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back schema migrations",
				Subcommands: []*cli.Command{
					{
						Name:  "up",
						Usage: "apply pending migrations",
						Action: func(ctx *cli.Context) error {
							return database.MigrateUp(cfg.MySQL.MigrateDsn())
						},
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
						},
						Action: func(ctx *cli.Context) error {
							return database.MigrateDown(cfg.MySQL.MigrateDsn(), ctx.Int("steps"))
						},
					},
				},
			},
			{
				Name:  "tag-worker",
				Usage: "consume queued auto-tagging jobs",
				Action: func(ctx *cli.Context) error {
					return runWorker(ctx, cfg)
				},
			},
			{
				Name:  "admin",
				Usage: "grant or revoke admin rights",
				Subcommands: []*cli.Command{
					adminCommand("grant", true, cfg),
					adminCommand("revoke", false, cfg),
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}

func runWorker(ctx *cli.Context, cfg *config.Config) error {
	if !cfg.RocketMQ.Enabled {
		return errors.New("rocketmq is disabled, photos are tagged by the api server")
	}
	w, err := InitWorker(cfg)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	defer stop()

	eg, groupCtx := errgroup.WithContext(sigCtx)
	if err := w.Start(eg, groupCtx); err != nil {
		stop()
		_ = eg.Wait()
		return err
	}
	return eg.Wait()
}

func adminCommand(name string, admin bool, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     name + " admin rights",
		ArgsUsage: "<username>",
		Action: func(ctx *cli.Context) error {
			username := ctx.Args().First()
			if username == "" {
				return errors.New("username is required")
			}
			users, err := InitUserService(cfg)
			if err != nil {
				return err
			}
			if err := users.SetAdmin(ctx.Context, username, admin); err != nil {
				return err
			}
			log.L.Info("admin updated", zap.String("username", username), zap.Bool("admin", admin))
			return nil
		},
	}
}
