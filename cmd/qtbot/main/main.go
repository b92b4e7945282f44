package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JamesNgai/qtbot/cache"
	"github.com/JamesNgai/qtbot/cogs/admin"
	"github.com/JamesNgai/qtbot/cogs/crypto"
	"github.com/JamesNgai/qtbot/cogs/generic"
	"github.com/JamesNgai/qtbot/cogs/tag"
	cogtmdb "github.com/JamesNgai/qtbot/cogs/tmdb"
	"github.com/JamesNgai/qtbot/cogs/weather"
	"github.com/JamesNgai/qtbot/config"
	"github.com/JamesNgai/qtbot/db"
	"github.com/JamesNgai/qtbot/logger/dlog"
	"github.com/JamesNgai/qtbot/platform"
	"github.com/JamesNgai/qtbot/telemetry"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/context"
)

func init() {
	if err := godotenv.Load(); err != nil {
		dlog.Info("no .env file, relying on the environment")
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("QTBOT_CONFIG"))
	if err != nil {
		dlog.Error("could not load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.Postgres)
	if err != nil {
		os.Exit(1)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		dlog.Error("migration failed", "err", err)
		os.Exit(1)
	}

	cacheClient, err := cache.Dial(cfg.Redis)
	if err != nil {
		dlog.Warn("running without redis, external lookups go uncached", "err", err)
		cacheClient = nil
	} else {
		defer cacheClient.Close()
	}

	telemetry.Init()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				dlog.Error("metrics listener died", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
	}

	b := platform.New(cfg,
		db.NewTagStore(pool),
		db.NewUserInfoStore(pool),
		db.NewPrefixStore(pool),
		cacheClient,
	)

	if err := b.Prefixes.LoadAll(ctx); err != nil {
		dlog.Error("could not load guild prefixes", "err", err)
		os.Exit(1)
	}

	if cfg.TMDB == "" {
		b.Cogs.Deny("tmdb")
	}
	b.Cogs.Register("admin", admin.New)
	b.Cogs.Register("crypto", crypto.New)
	b.Cogs.Register("generic", generic.New)
	b.Cogs.Register("tag", tag.New)
	b.Cogs.Register("tmdb", cogtmdb.New)
	b.Cogs.Register("weather", weather.New)
	b.Cogs.LoadAll()

	if err := b.Setup(ctx); err != nil {
		dlog.Error("could not open the gateway", "err", err)
		os.Exit(1)
	}
	defer b.Close(ctx)

	dlog.Info("qtbot is now running, press CTRL-C to exit")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	dlog.Info("graceful shutdown")
}
