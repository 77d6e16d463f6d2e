// Package reader enumerates a directory of monthly branch workbooks and turns
// each one into a RawRecord. File names follow the convention
// <entity>_<kind>_<YYYYMM>.xlsx; anything else is skipped with a warning.
// Matched workbooks are archived before parsing. Only a directory that cannot
// be enumerated is fatal: unreadable files and unparseable cells degrade.
package reader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	apperrors "branchcli/internal/errors"
	"branchcli/pkg/contracts/domain"
)

// archiveSubdir is where ingested workbooks are copied inside the data dir.
const archiveSubdir = "archive"

// defaultConcurrency bounds parallel workbook parsing. The pipeline core is
// single-threaded; only file I/O fans out.
const defaultConcurrency = 4

// Reader scans a data directory for branch workbooks.
type Reader struct {
	logger      *slog.Logger
	concurrency int
	archive     bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithConcurrency bounds how many workbooks are parsed in parallel.
func WithConcurrency(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithoutArchive disables the pre-parse archive copy.
func WithoutArchive() Option {
	return func(r *Reader) {
		r.archive = false
	}
}

// NewReader creates a reader. A nil logger falls back to the default.
func NewReader(logger *slog.Logger, opts ...Option) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reader{logger: logger, concurrency: defaultConcurrency, archive: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// sourceFile is one workbook matched by the naming convention.
type sourceFile struct {
	path   string
	entity string
	kind   domain.RecordKind
	period domain.Period
}

// Scan reads every conforming workbook under dir and returns the raw records
// sorted by file name, keeping ingestion order deterministic for the
// integrator's last-write-wins merge.
func (r *Reader) Scan(ctx context.Context, dir string) ([]domain.RawRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewIntegrationError("reader",
			fmt.Sprintf("cannot enumerate data directory %s", dir), err)
	}

	var files []sourceFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			continue
		}
		sf, err := parseFileName(entry.Name())
		if err != nil {
			r.logger.Warn("skipping non-conforming file",
				slog.String("file", entry.Name()),
				slog.String("reason", err.Error()))
			continue
		}
		sf.path = filepath.Join(dir, entry.Name())
		files = append(files, sf)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	if r.archive {
		r.archiveFiles(dir, files)
	}

	records := make([]domain.RawRecord, len(files))
	ok := make([]bool, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, sf := range files {
		i, sf := i, sf
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			fields, err := r.parseWorkbook(sf.path)
			if err != nil {
				r.logger.Warn("skipping unreadable workbook",
					slog.String("file", sf.path),
					slog.String("error", err.Error()))
				return nil
			}
			records[i] = domain.RawRecord{
				Entity: sf.entity,
				Period: sf.period,
				Kind:   sf.kind,
				Fields: fields,
			}
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewIntegrationError("reader", "workbook scan interrupted", err)
	}

	out := make([]domain.RawRecord, 0, len(records))
	for i := range records {
		if ok[i] {
			out = append(out, records[i])
		}
	}

	r.logger.InfoContext(ctx, "scanned data directory",
		slog.String("dir", dir),
		slog.Int("workbooks", len(out)))

	return out, nil
}

// parseFileName splits <entity>_<kind>_<YYYYMM>.xlsx into its parts.
func parseFileName(name string) (sourceFile, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) != 3 {
		return sourceFile{}, fmt.Errorf("expected <entity>_<kind>_<YYYYMM>, got %q", base)
	}
	kind, err := domain.ParseRecordKind(parts[1])
	if err != nil {
		return sourceFile{}, err
	}
	period, err := domain.ParsePeriod(parts[2])
	if err != nil {
		return sourceFile{}, err
	}
	if parts[0] == "" {
		return sourceFile{}, fmt.Errorf("empty entity in %q", base)
	}
	return sourceFile{entity: parts[0], kind: kind, period: period}, nil
}

// parseWorkbook reads the first sheet as (label, value) pairs. Labels that
// don't normalize to the canonical vocabulary are ignored; values that don't
// parse as numbers become absent.
func (r *Reader) parseWorkbook(path string) (map[string]domain.Value, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	fields := make(map[string]domain.Value)
	for _, row := range rows {
		if len(row) < 1 {
			continue
		}
		name, known := canonicalField(row[0])
		if !known {
			continue
		}
		if len(row) < 2 {
			fields[name] = domain.None()
			continue
		}
		fields[name] = domain.ParseValue(row[1])
	}
	return fields, nil
}

// archiveFiles copies each workbook into the archive subdirectory. Failures
// are logged and never abort the scan.
func (r *Reader) archiveFiles(dir string, files []sourceFile) {
	if len(files) == 0 {
		return
	}
	archiveDir := filepath.Join(dir, archiveSubdir)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		r.logger.Warn("cannot create archive directory",
			slog.String("dir", archiveDir),
			slog.String("error", err.Error()))
		return
	}
	for _, sf := range files {
		dst := filepath.Join(archiveDir, filepath.Base(sf.path))
		if err := copyFile(sf.path, dst); err != nil {
			r.logger.Warn("cannot archive workbook",
				slog.String("file", sf.path),
				slog.String("error", err.Error()))
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
