// Package app assembles the bot from configuration: catalog, session
// store, conversation flow, notifier, and handler registry.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"orderbot/internal/catalog"
	"orderbot/internal/config"
	"orderbot/internal/flow"
	"orderbot/internal/forward"
	"orderbot/internal/logger"
	"orderbot/internal/session"
	"orderbot/internal/telegram"
)

// App holds the wired application components.
type App struct {
	cfg      *config.Config
	Catalog  *catalog.Catalog
	Sessions session.Store
	Notifier *forward.Notifier
	Flow     *flow.Flow
	Registry *telegram.Registry
}

// Bootstrap initializes the logger and builds every component in
// dependency order. Any configuration problem aborts startup.
func Bootstrap(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	if err := logger.Init(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	cat, err := catalog.New(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	notifier, err := forward.New(cfg.Forwarding)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	sessions := session.NewMemoryStore()
	fl := flow.New(cat, sessions, notifier)

	reg := telegram.NewRegistry()
	reg.RegisterCommand("/start", telegram.Command{
		Handler:     fl.Start,
		Description: "Show the welcome message",
	})
	reg.RegisterCommand("/order", telegram.Command{
		Handler:     fl.Order,
		Description: "Place a new order",
	})
	if err := reg.RegisterCallback(flow.PickKey, fl.Pick); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	logger.Info(context.Background(), "app", "wired",
		slog.String("status", "ok"),
		slog.Int("products", cat.Len()),
		slog.Int64("target_chat_id", int64(notifier.Target())),
	)

	return &App{
		cfg:      cfg,
		Catalog:  cat,
		Sessions: sessions,
		Notifier: notifier,
		Flow:     fl,
		Registry: reg,
	}, nil
}

// RunOptions builds the Telegram runtime options for this app.
func (a *App) RunOptions() telegram.RunOptions {
	routes := telegram.CommandRoutes(a.Registry)
	routes = append(routes, telegram.CallbackRoute(a.Registry, telegram.CallbackOptions{}))
	routes = append(routes, telegram.TextRoutes(a.Flow, a.Registry, telegram.TextOptions{})...)

	return telegram.RunOptions{
		Config:      a.cfg,
		Registry:    a.Registry,
		Middlewares: telegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			a.Notifier.Bind(rt.Bot)
			return nil
		},
	}
}
