package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/avframebuffer"
	"github.com/xaionaro-go/avframebuffer/command"
	"github.com/xaionaro-go/avframebuffer/decoder/libav"
	"github.com/xaionaro-go/avframebuffer/presenter"
	"github.com/xaionaro-go/avframebuffer/sink"
	"github.com/xaionaro-go/observability"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags] [<source>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "commands on stdin: load <source> | play | stop\n")
		pflag.PrintDefaults()
	}

	cfg := avframebuffer.DefaultPlayerConfig()
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	pflag.Var(&cfg.Allocator, "allocator", "frame memory allocator: heap, pooled")
	pflag.Var(&cfg.PixelFormat, "pixel-format", "the pixel format media files are converted to")
	framesCount := pflag.Uint32("frames", cfg.FramesCount, "the amount of frames the sink may hold")
	pflag.DurationVar(&cfg.EnqueueTimeout, "enqueue-timeout", cfg.EnqueueTimeout, "how long the decoder waits for a free slot before retrying")
	pflag.DurationVar(&cfg.RefreshInterval, "refresh-interval", cfg.RefreshInterval, "how often the last frame is re-presented while no new frames arrive (0 disables)")
	memoryBudget := pflag.String("memory-budget", "", "a limit on the memory held by frames, e.g. 256MiB")
	snapshotDir := pflag.String("snapshot-dir", "", "a directory to save every n-th frame to as PNG")
	snapshotEvery := pflag.Uint64("snapshot-every", 100, "the amount of fresh frames between two snapshots")
	statsInterval := pflag.Duration("stats-interval", time.Second, "how often to print the statistics (0 disables)")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Parse()
	if len(pflag.Args()) > 1 {
		pflag.Usage()
		os.Exit(1)
	}
	cfg.FramesCount = *framesCount

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	libav.SetupLogging(ctx)

	if *memoryBudget != "" {
		v, err := humanize.ParseBytes(*memoryBudget)
		if err != nil {
			l.Fatalf("unable to parse the memory budget %q: %v", *memoryBudget, err)
		}
		cfg.MemoryBudget = v
	}

	presenters := presenter.Multi{}
	stats := presenter.NewStats()
	presenters = append(presenters, stats)
	if *snapshotDir != "" {
		snapshotCfg := presenter.DefaultSnapshotConfig()
		snapshotCfg.Directory = *snapshotDir
		snapshotCfg.Every = *snapshotEvery
		snapshot, err := presenter.NewSnapshot(snapshotCfg)
		if err != nil {
			l.Fatal(err)
		}
		presenters = append(presenters, snapshot)
	}

	player, err := avframebuffer.NewPlayer(ctx, cfg)
	if err != nil {
		l.Fatal(err)
	}
	defer player.Close(ctx)

	observability.Go(ctx, func(ctx context.Context) {
		defer cancelFn()
		err := player.Run(ctx, presenters)
		if err != nil && err != context.Canceled && err != sink.ErrClosed {
			l.Error(err)
		}
	})

	observability.Go(ctx, func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-player.ErrorChan():
				l.Error(err)
			}
		}
	})

	if len(pflag.Args()) == 1 {
		if err := player.LoadFile(ctx, pflag.Arg(0)); err != nil {
			l.Fatal(err)
		}
		if err := player.Play(ctx); err != nil {
			l.Fatal(err)
		}
	}

	observability.Go(ctx, func(ctx context.Context) {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "" {
				continue
			}
			cmd, err := command.Parse(player, scanner.Text())
			if err != nil {
				l.Error(err)
				continue
			}
			if err := cmd.Execute(ctx); err != nil {
				l.Errorf("unable to execute '%s': %v", cmd, err)
			}
		}
	})

	var tick <-chan time.Time
	if *statsInterval > 0 {
		t := time.NewTicker(*statsInterval)
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			statsJSON, err := json.Marshal(player.Stats())
			if err != nil {
				l.Fatal(err)
			}
			fmt.Printf("%s %s\n", stats, statsJSON)
		}
	}
}
