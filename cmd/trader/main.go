package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/core"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/feed"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/ingest/marketdata"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/journal"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/obs"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/ops"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/signal"
	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (empty = defaults)")
	coin := flag.String("coin", "", "Override feed.coin")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logs.Errorf("config load failed, err: %+v", err)
		os.Exit(1)
	}
	if *coin != "" {
		cfg.Feed.Coin = *coin
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logs.Errorf("trader stopped, err: %+v", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (ops.FileConfig, error) {
	if path == "" {
		return ops.Default(), nil
	}
	return ops.Load(path)
}

func run(ctx context.Context, cfg ops.FileConfig) error {
	if cfg.Profiling.Enabled {
		profiler, err := startProfiler(cfg.Profiling, cfg.Feed.Coin)
		if err != nil {
			return errors.Wrap(err, "start profiler")
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := obs.NewMetrics(registry)

	if cfg.Metrics.Addr != "" {
		srv := metricsServer(cfg.Metrics.Addr, registry)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logs.Errorf("[metrics] serve %s, err: %+v", cfg.Metrics.Addr, err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sinks := core.MultiSink{}
	if cfg.Feed.Diagnostics {
		sinks = append(sinks, core.LogSink{})
	}
	if cfg.Journal.Enabled {
		writer, closeJournal, err := openJournal(ctx, cfg.Journal)
		if err != nil {
			return err
		}
		defer closeJournal()
		sinks = append(sinks, writer)
	}

	router := core.New(core.Option{
		Coin:          cfg.Feed.Coin,
		Signal:        cfg.Signal,
		Quote:         cfg.Quote,
		Risk:          cfg.Risk,
		Sink:          sinks,
		Metrics:       metrics,
		Diagnostics:   cfg.Feed.Diagnostics,
		QueueCapacity: cfg.Feed.QueueCapacity,
	})

	routerDone := make(chan struct{})
	go func() {
		defer close(routerDone)
		router.Run(context.WithoutCancel(ctx))
	}()
	stopRouter := func() {
		router.Close()
		<-routerDone
	}

	pub := marketdata.NewHyperliquidPub(ctx, cfg.Feed.URL)
	if err := pub.StartWebsocket(ctx); err != nil {
		stopRouter()
		return err
	}
	defer pub.Close()

	unsubscribe := pub.Observe(ctx, func(ev feed.Event) {
		if err := router.Publish(ev); err != nil {
			logs.Errorf("[feed] publish %s, err: %+v", ev.Kind, err)
		}
	})

	if err := pub.SubscribeBook(ctx, cfg.Feed.Coin); err != nil {
		unsubscribe()
		stopRouter()
		return err
	}
	if err := pub.SubscribeTrades(ctx, cfg.Feed.Coin); err != nil {
		unsubscribe()
		stopRouter()
		return err
	}

	logs.Infof("[trader] quoting %s from %s", cfg.Feed.Coin, cfg.Feed.URL)

	select {
	case <-ctx.Done():
	case <-sys.Shutdown():
	}

	logs.Infof("[trader] shutting down, %d events pending", router.Pending())
	unsubscribe()
	if snap, err := snapshotWithTimeout(router); err == nil {
		logs.Infof("[trader] final %s", snap)
	}
	stopRouter()

	logSummary(metrics.Snapshot())
	return nil
}

func openJournal(ctx context.Context, cfg ops.JournalConfig) (*journal.Writer, func(), error) {
	client, err := conn.New(ctx, cfg.Conn())
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect journal db")
	}

	store, err := journal.NewGormStore(client.DB())
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	writer, err := journal.NewWriter(store, cfg.Writer())
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	if err := writer.Start(context.WithoutCancel(ctx)); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := writer.Close(); err != nil {
			logs.Errorf("[journal] close, err: %+v", err)
		}
		logs.Infof("[journal] written %d, dropped %d", writer.Written(), writer.Dropped())
		_ = client.Close()
	}
	return writer, closeFn, nil
}

func snapshotWithTimeout(router *core.Router) (signal.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return router.Snapshot(ctx)
}

func metricsServer(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func startProfiler(cfg ops.ProfilingConfig, coin string) (*pyroscope.Profiler, error) {
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Tags: map[string]string{
			"coin": coin,
		},
		Logger: profilerLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

type profilerLogger struct{}

func (profilerLogger) Infof(format string, args ...interface{}) {
	logs.Infof("[pyroscope] "+format, args...)
}

func (profilerLogger) Debugf(_ string, _ ...interface{}) {}

func (profilerLogger) Errorf(format string, args ...interface{}) {
	logs.Errorf("[pyroscope] "+format, args...)
}

func logSummary(snap obs.Snapshot) {
	logs.Infof("[summary] events book=%d trades=%d", snap.EventCounts[feed.KindBook], snap.EventCounts[feed.KindTrades])
	logs.Infof("[summary] admitted=%d rejected=%d droppedBooks=%d badTrades=%d", snap.Admitted, snap.Rejected, snap.DroppedBooks, snap.BadTrades)
	for reason, n := range snap.RejectReasons {
		logs.Infof("[summary] reject %s=%d", reason, n)
	}
	lat := snap.HandleLatency
	logs.Infof("[summary] handle latency count=%d min=%s avg=%s max=%s", lat.Count, lat.Min, lat.Avg, lat.Max)
}
