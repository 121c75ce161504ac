package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/Shreecharana24/URL-shortner/internal/cli"
	"github.com/Shreecharana24/URL-shortner/internal/config"
	"github.com/Shreecharana24/URL-shortner/internal/service"
	"github.com/Shreecharana24/URL-shortner/internal/shortcode"
	"github.com/Shreecharana24/URL-shortner/internal/storage/memory"
	"github.com/Shreecharana24/URL-shortner/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Path, cfg.Logging.Level, cfg.Logging.Console)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()
	sugar := log.Sugar()

	gen, err := shortcode.New(cfg.Shortener.ModulusBits, cfg.Shortener.Multiplier)
	if err != nil {
		return err
	}

	svc := service.New(gen, memory.New(cfg.Shortener.BucketCount), sugar)
	repl := cli.New(svc, os.Stdin, os.Stdout, cfg.Shortener.MaxURLLength, sugar)

	sugar.Infow("starting", "modulus", gen.Modulus(), "buckets", cfg.Shortener.BucketCount)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Run reports a clean shutdown as cli.ErrClosed, which cancels the
		// group context and releases the goroutine below.
		return repl.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		svc.Close()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, cli.ErrClosed) {
		return err
	}

	sugar.Info("shut down")
	return nil
}
