package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/flashmark/internal/config"
	"github.com/conorfennell/flashmark/internal/generation"
	"github.com/conorfennell/flashmark/internal/ingest"
	"github.com/conorfennell/flashmark/internal/logger"
	"github.com/conorfennell/flashmark/internal/platform/gemini"
	"github.com/conorfennell/flashmark/internal/review"
	"github.com/conorfennell/flashmark/internal/service"
	"github.com/conorfennell/flashmark/internal/storage"
	"github.com/conorfennell/flashmark/internal/web"
)

const usage = `Usage: flashmark [flags] <command> [args]

Commands:
  serve               run the HTTP API (default)
  import <source>...  import .csv/.md files, directories or git URLs
  list                print marked cards as JSON

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "flashmark:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := config.NewFlagSet("flashmark")
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	cfg, rest, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, stderr)
	slog.SetDefault(log)

	store, err := storage.Open(ctx, cfg.Store.Path, storage.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	cards := service.NewCards(store, log)
	importer := service.NewImporter(cards, log)

	command := "serve"
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, cfg, log, store, cards, importer)
	case "import":
		return runImport(ctx, cfg, log, importer, rest, stdout)
	case "list":
		return list(ctx, cards, stdout)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger, store *storage.Store, cards *service.Cards, importer *service.Importer) error {
	var completer generation.Completer
	if cfg.LLM.Enabled() {
		c, err := gemini.NewCompleter(ctx, cfg.LLM, log)
		if err != nil {
			return err
		}
		completer = c
	} else {
		log.Warn("no LLM API key configured, card generation is disabled")
	}

	handler := web.NewServer(web.Deps{
		Cards:          cards,
		Importer:       importer,
		Sessions:       review.NewRegistry(cards, log),
		Generator:      generation.NewService(completer, log),
		Counter:        store,
		Log:            log,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr, "store", cfg.Store.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func runImport(ctx context.Context, cfg *config.Config, log *slog.Logger, importer *service.Importer, sources []string, stdout io.Writer) error {
	if len(sources) == 0 {
		return errors.New("import needs at least one source")
	}

	runner := ingest.New(importer, cfg.Import.ReposDir, log)
	var total ingest.Report
	for _, source := range sources {
		report, err := runner.Run(ctx, source)
		total.Add(report.ImportResult)
		total.Files += report.Files
		total.Failed += report.Failed
		if err != nil {
			return fmt.Errorf("import %s: %w", source, err)
		}
	}

	fmt.Fprintf(stdout, "Imported %d cards from %d files (%d rows skipped, %d files failed).\n",
		total.Imported, total.Files, total.Skipped, total.Failed)
	return nil
}

func list(ctx context.Context, cards *service.Cards, stdout io.Writer) error {
	marked, err := cards.List(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(marked)
}
