// Package ingest feeds card files from local paths and git repositories into
// bulk import.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashmark/internal/domain"
	"github.com/conorfennell/flashmark/internal/gitsource"
	"github.com/conorfennell/flashmark/internal/parser"
	"github.com/conorfennell/flashmark/internal/service"
)

// Importer is the bulk import the runner feeds.
type Importer interface {
	Import(ctx context.Context, batch []domain.Candidate) (service.ImportResult, error)
}

// Report totals one Run.
type Report struct {
	service.ImportResult
	Files  int `json:"files"`
	Failed int `json:"failed"`
}

// Runner imports sources. CSV files are expected to start with a
// topic,question,answer header row.
type Runner struct {
	importer Importer
	reposDir string
	log      *slog.Logger

	syncRepo func(ctx context.Context, log *slog.Logger, url, path string) error
}

func New(importer Importer, reposDir string, log *slog.Logger) *Runner {
	return &Runner{
		importer: importer,
		reposDir: reposDir,
		log:      log.With("component", "ingest"),
		syncRepo: gitsource.Sync,
	}
}

// Run imports source, which is a .csv or .md file, a directory walked for
// such files, or a git URL that is cloned or pulled under the repos
// directory first. Files that fail to parse are counted and skipped. A
// storage failure stops the run.
func (r *Runner) Run(ctx context.Context, source string) (Report, error) {
	r.log.InfoContext(ctx, "importing source", "source", source)

	path := source
	if gitsource.IsURL(source) {
		local, err := gitsource.LocalPath(r.reposDir, source)
		if err != nil {
			return Report{}, err
		}
		if err := r.syncRepo(ctx, r.log, source, local); err != nil {
			return Report{}, err
		}
		path = local
	}

	info, err := os.Stat(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to stat source %s: %w", path, err)
	}

	var report Report
	if !info.IsDir() {
		err = r.importFile(ctx, path, &report)
	} else {
		err = r.walk(ctx, path, &report)
	}
	if err != nil {
		return report, err
	}

	r.log.InfoContext(ctx, "source imported",
		"source", source,
		"files", report.Files,
		"failed", report.Failed,
		"imported", report.Imported,
		"skipped", report.Skipped,
	)
	return report, nil
}

func (r *Runner) walk(ctx context.Context, root string, report *Report) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !supported(path) {
			return nil
		}
		return r.importFile(ctx, path, report)
	})
}

func (r *Runner) importFile(ctx context.Context, path string, report *Report) error {
	report.Files++

	batch, err := parseFile(path)
	if err != nil {
		report.Failed++
		r.log.WarnContext(ctx, "failed to parse file", "path", path, "error", err)
		return nil
	}
	if len(batch) == 0 {
		r.log.DebugContext(ctx, "no cards in file", "path", path)
		return nil
	}

	res, err := r.importer.Import(ctx, batch)
	report.Add(res)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			report.Failed++
			r.log.WarnContext(ctx, "file rejected", "path", path, "error", err)
			return nil
		}
		return fmt.Errorf("import %s: %w", path, err)
	}
	return nil
}

func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".md":
		return true
	}
	return false
}

func parseFile(path string) ([]domain.Candidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parser.ParseCSV(f, true)
	case ".md":
		return parser.ParseFile(path)
	}
	return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}
