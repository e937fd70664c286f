package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/tgvmax-weekends/internal/common/config"
	"github.com/tgvmax-weekends/internal/common/discord"
	"github.com/tgvmax-weekends/internal/common/logger"
	"github.com/tgvmax-weekends/internal/finder"
	"github.com/tgvmax-weekends/internal/presenter"
	"github.com/tgvmax-weekends/internal/source"
	"github.com/tgvmax-weekends/internal/web"
	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tgvmax: "+err.Error())
		os.Exit(1)
	}
}

// run owns every deferred cleanup so they complete before main exits.
func run() error {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLogLevel(cfg.Logging.Level)
	if cfg.Logging.FilePath != "" {
		logCfg.File = true
		logCfg.FilePath = cfg.Logging.FilePath
	}
	log := logger.NewFromConfig(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "tgvmax",
		Usage: "find weekend TGVmax trains between two stations",
		Commands: []*cli.Command{
			showCommand(cfg, log),
			serveCommand(cfg, log),
			notifyCommand(cfg, log),
			routesCommand(cfg),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error("tgvmax failed", "error", err)
		return err
	}
	return nil
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "route",
			Usage: "route name, see the routes command",
		},
		&cli.BoolFlag{
			Name:  "swap",
			Usage: "travel the route the other way round",
		},
		&cli.StringFlag{
			Name:  "today",
			Usage: "reference date as YYYY-MM-DD (defaults to the current date)",
		},
		&cli.BoolFlag{
			Name:  "hide-past",
			Usage: "leave out departures dated before the reference date",
		},
	}
}

func selectionFromFlags(c *cli.Context, cfg *config.Config) (finder.Selection, error) {
	route, err := cfg.Routes.Find(c.String("route"))
	if err != nil {
		return finder.Selection{}, err
	}

	sel := finder.Selection{Route: route, Swapped: c.Bool("swap"), HidePast: c.Bool("hide-past")}
	if s := c.String("today"); s != "" {
		today, err := models.ParseDate(s)
		if err != nil {
			return finder.Selection{}, err
		}
		sel.Today = today
	}
	return sel, nil
}

func newFinder(cfg *config.Config, log logger.Logger) (*finder.Finder, error) {
	fetcher, err := source.NewHTTPRecordFetcher(source.Config{
		BaseURL:  cfg.Dataset.BaseURL,
		Dataset:  cfg.Dataset.Dataset,
		PageSize: cfg.Dataset.PageSize,
		Timeout:  cfg.Dataset.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}
	return finder.New(fetcher, log), nil
}

func showCommand(cfg *config.Config, log logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print the weekend trains",
		Flags: append(selectionFlags(), &cli.BoolFlag{
			Name:  "json",
			Usage: "print the view as JSON",
		}),
		Action: func(c *cli.Context) error {
			sel, err := selectionFromFlags(c, cfg)
			if err != nil {
				return err
			}
			f, err := newFinder(cfg, log)
			if err != nil {
				return err
			}

			view, err := f.Run(c.Context, sel)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return presenter.RenderText(c.App.Writer, view)
		},
	}
}

func serveCommand(cfg *config.Config, log logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the web page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Value: cfg.Web.ListenAddr,
				Usage: "listen target for the web server",
			},
		},
		Action: func(c *cli.Context) error {
			f, err := newFinder(cfg, log)
			if err != nil {
				return err
			}
			router := web.NewRouter(web.NewHandler(f, cfg.Routes, log))
			return web.Serve(c.Context, c.String("listen"), router, log)
		},
	}
}

func notifyCommand(cfg *config.Config, log logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "post the weekend trains to a Discord webhook",
		Flags: append(selectionFlags(), &cli.StringFlag{
			Name:    "webhook",
			Value:   cfg.Discord.WebhookURL,
			Usage:   "Discord webhook URL",
			EnvVars: []string{"DISCORD_WEBHOOK_URL"},
		}),
		Action: func(c *cli.Context) error {
			if c.String("webhook") == "" {
				return fmt.Errorf("no Discord webhook configured")
			}
			sel, err := selectionFromFlags(c, cfg)
			if err != nil {
				return err
			}
			f, err := newFinder(cfg, log)
			if err != nil {
				return err
			}

			view, err := f.Run(c.Context, sel)
			if err != nil {
				return err
			}

			if err := discord.NewClient(c.String("webhook")).SendView(c.Context, view); err != nil {
				return fmt.Errorf("posting to Discord: %w", err)
			}
			log.Info("Weekends posted to Discord", "route", view.Route.String(), "weekends", len(view.Sections))
			return nil
		},
	}
}

func routesCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "list the configured routes",
		Action: func(c *cli.Context) error {
			for _, r := range cfg.Routes.Routes {
				marker := " "
				if r.Name == cfg.Routes.Default {
					marker = "*"
				}
				fmt.Fprintf(c.App.Writer, "%s %-16s %s (%s → %s)\n", marker, r.Name, r, r.Origin.Code, r.Destination.Code)
			}
			return nil
		},
	}
}
