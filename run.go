package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/airwaves/internal/config"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/interruption"
	"github.com/llehouerou/airwaves/internal/logging"
	"github.com/llehouerou/airwaves/internal/network"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/observer"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/server"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/stderr"
	"github.com/llehouerou/airwaves/internal/stream"
	"github.com/llehouerou/airwaves/internal/ui/nowplaying"
)

const recentTitles = 5

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLoadConfig, err))
	}

	logCfg := cfg.GetLogConfig()
	if lvl := cmd.String("log-level"); lvl != "" {
		logCfg.Level = lvl
	}
	headless := cmd.Bool("headless")

	var logger *log.Logger
	if headless {
		logger = logging.New(os.Stderr, logCfg.Level)
	} else {
		l, closer, err := logging.OpenFile(logCfg.File, logCfg.Level)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpInitialize, err))
		}
		defer closer.Close()
		logger = l

		// Native libraries write to fd 2 and would tear the TUI.
		capture, err := stderr.Start(logger)
		if err != nil {
			logger.Warn("stderr capture", "err", err)
		} else {
			defer capture.Stop()
		}
	}

	stateMgr, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpOpenState, err))
	}
	defer stateMgr.Close()

	artCfg := cfg.GetArtworkConfig()
	stateMgr.SetArtworkTTL(artCfg.CacheTTLDays)
	if n, err := stateMgr.PruneArtwork(); err != nil {
		logger.Warn(errmsg.Format(errmsg.OpSaveState, err))
	} else if n > 0 {
		logger.Debug("pruned artwork cache", "entries", n)
	}

	playerCfg := cfg.GetPlayerConfig()
	src, err := pickSource(cmd.Args().First(), playerCfg.Headers, cmd.StringSlice("header"), stateMgr)
	if err != nil {
		return err
	}

	savedVolume, err := stateMgr.GetVolume()
	if err != nil {
		logger.Warn(errmsg.Format(errmsg.OpLoadState, err))
	}
	var flagVolume *float64
	if cmd.IsSet("volume") {
		v := cmd.Float("volume")
		flagVolume = &v
	}
	volume := pickVolume(flagVolume, playerCfg.Volume, savedVolume)

	streamCfg := cfg.GetStreamConfig(version)
	netCfg := cfg.GetNetworkConfig()

	opts := playback.DefaultOptions()
	opts.AutoPlay = *playerCfg.AutoPlay
	opts.ArtworkEnabled = *artCfg.Enabled && !cmd.Bool("no-artwork")
	opts.Resolver = buildResolver(artCfg, streamCfg.UserAgent, stateMgr, logging.With(logger, "artwork"))
	opts.RecoveryGrace = netCfg.RecoveryGrace()
	opts.Volume = volume
	opts.Logger = logging.With(logger, "engine")

	backend := stream.New(stream.Options{
		UserAgent:  streamCfg.UserAgent,
		Buffer:     streamCfg.Buffer(),
		ReadyAfter: streamCfg.Ahead(),
		Logger:     logging.With(logger, "stream"),
	})
	engine := playback.New(backend, opts)
	defer engine.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Observers are held weakly by the engine; these locals keep them alive
	// until run returns.
	recorder := state.NewRecorder(stateMgr, logging.With(logger, "history"))
	observer.Subscribe(engine.Observers(), recorder)
	wg.Go(func() { _ = recorder.Run(ctx) })

	var nowPlaying *notify.NowPlaying
	if *playerCfg.Notifications {
		notifier, err := notify.New()
		if err != nil {
			logger.Debug("notifications unavailable", "err", err)
		} else {
			icons := notify.NewIconCache(filepath.Join(xdg.CacheHome, "airwaves", "icons"), nil)
			nowPlaying = notify.NewNowPlaying(notifier, icons, logging.With(logger, "notify"))
			observer.Subscribe(engine.Observers(), nowPlaying)
			wg.Go(func() { _ = nowPlaying.Run(ctx) })
		}
	}

	reach := buildReachability(ctx, netCfg, logger)
	monitor := network.NewMonitor(reach, engine, logging.With(logger, "network"))
	wg.Go(func() {
		if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn(errmsg.Format(errmsg.OpWatchNetwork, err))
		}
	})

	if logind, err := interruption.NewLogind(); err != nil {
		logger.Debug("sleep notifications unavailable", "err", err)
	} else {
		defer logind.Close()
		wg.Go(func() { interruption.Forward(ctx, logind, engine.HandleInterruption) })
	}

	listen := cfg.Server.Listen
	if cmd.IsSet("listen") {
		listen = cmd.String("listen")
	}
	if listen != "" {
		srv := server.New(engine, logging.With(logger, "server"))
		wg.Go(func() {
			if err := srv.ListenAndServe(ctx, listen); err != nil {
				logger.Error(errmsg.Format(errmsg.OpServeFeed, err))
			}
		})
		logger.Info("now-playing feed", "addr", listen)
	}

	engine.SetSource(src)
	logger.Info("playing", "url", src.URL)

	if headless {
		<-ctx.Done()
		return nil
	}

	sub := engine.Subscribe()
	defer engine.Unsubscribe(sub)

	model := nowplaying.New(engine, sub, nowplaying.Options{
		OnVolume: stateMgr.SaveVolume,
		Recent:   loadRecent(ctx, stateMgr, logger),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	wg.Go(func() {
		<-ctx.Done()
		p.Quit()
	})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// loadRecent reads the last few titles from history, newest first.
func loadRecent(ctx context.Context, st *state.Manager, logger *log.Logger) []nowplaying.Recent {
	entries, err := st.RecentHistory(ctx, recentTitles)
	if err != nil {
		logger.Warn(errmsg.Format(errmsg.OpLoadState, err))
		return nil
	}
	return recentFromHistory(entries)
}
