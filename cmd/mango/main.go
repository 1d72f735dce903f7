package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mango.movies/mango/internal/client"
	"mango.movies/mango/internal/config"
	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/store"
)

const usage = `Usage: mango [flags] [command]

Commands:
  run        answer the mood quiz and get tonight's movies (default)
  profile    set up or edit your taste profile
  watchlist  show saved movies

Flags:
`

func main() {
	cfg := config.Load()

	serverURL := flag.String("server", cfg.ServerURL, "mango server URL")
	backend := flag.String("store", cfg.StoreBackend, "local store backend: sqlite, badger or memory")
	storePath := flag.String("store-path", cfg.StorePath, "local store file or directory")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logging.Init(logging.Config{Level: *logLevel, Format: "console"})
	if !cfg.EnvFileLoaded {
		logging.Debug().Msg("No .env file found, relying on environment variables")
	}

	kv, err := store.Open(*backend, *storePath)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", *backend).Msg("Failed to open local store")
	}
	local := store.NewLocalStore(kv)
	defer local.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &app{
		ui:     newUI(os.Stdin, os.Stdout),
		local:  local,
		server: client.New(*serverURL),
	}

	command := flag.Arg(0)
	if command == "" {
		command = "run"
	}

	switch command {
	case "run":
		err = app.run(ctx)
	case "profile":
		err = app.editProfile(ctx)
	case "watchlist":
		app.showWatchlist(ctx)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, errQuit) && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	ui     *ui
	local  *store.LocalStore
	server *client.Client
}
