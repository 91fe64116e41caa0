package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"

	"github.com/johndauphine/csvlist/internal/column"
	"github.com/johndauphine/csvlist/internal/config"
	"github.com/johndauphine/csvlist/internal/logging"
	"github.com/johndauphine/csvlist/internal/progress"
	"github.com/johndauphine/csvlist/internal/render"
	"github.com/johndauphine/csvlist/internal/source"
	"github.com/johndauphine/csvlist/internal/target"
)

// RunOptions selects which stages Run performs after splitting.
type RunOptions struct {
	// Render writes the split table in the configured output format.
	Render bool

	// Export writes the split table to the configured target.
	Export bool

	// Output overrides the configured output path when non-nil.
	Output io.Writer

	// Progress receives the export progress bar; nil disables it.
	Progress io.Writer
}

// Pipeline reads a delimited file, splits the configured columns and
// hands the result to the renderer and the SQL target.
type Pipeline struct {
	cfg   *config.Config
	runID string

	// mem backs the split output. It is byte-limited when memory_limit_mb is set.
	mem memory.Allocator

	openTarget func(context.Context, *config.TargetConfig) (target.Writer, error)
}

// New creates a pipeline for cfg with a fresh run id.
func New(cfg *config.Config) *Pipeline {
	var mem memory.Allocator = memory.DefaultAllocator
	if cfg.MemoryLimitMB > 0 {
		mem = column.NewLimitedAllocator(memory.DefaultAllocator, int(cfg.MemoryLimitMB)<<20)
	}
	return &Pipeline{
		cfg:        cfg,
		runID:      uuid.NewString(),
		mem:        mem,
		openTarget: target.Open,
	}
}

// RunID returns the unique id of this run.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Load reads the configured input file into a table.
func (p *Pipeline) Load(ctx context.Context) (arrow.Table, error) {
	opts, err := p.cfg.SourceOptions()
	if err != nil {
		return nil, err
	}
	return source.ReadFile(ctx, p.cfg.Input.Path, opts)
}

// Split splits every configured column of tbl on the token delimiter.
// The caller owns both tables.
func (p *Pipeline) Split(tbl arrow.Table) (arrow.Table, error) {
	if len(p.cfg.Split.Columns) == 0 {
		logging.Warn("No split columns configured; table passes through unchanged")
	}
	return column.SplitTableColumns(p.mem, tbl, p.cfg.Split.Columns, p.cfg.TokenDelimiter())
}

// Render writes tbl to w in the configured format.
func (p *Pipeline) Render(w io.Writer, tbl arrow.Table) error {
	return render.Table(w, tbl, render.Format(p.cfg.Output.Format))
}

// Export writes tbl to the configured target and returns the rows written.
func (p *Pipeline) Export(ctx context.Context, tbl arrow.Table, progressOut io.Writer) (int64, error) {
	w, err := p.openTarget(ctx, &p.cfg.Target)
	if err != nil {
		return 0, fmt.Errorf("opening target: %w", err)
	}
	defer w.Close()

	tracker := progress.New(fmt.Sprintf("Exporting %s", p.cfg.Target.Table), progressOut)
	n, err := target.Export(ctx, w, tbl, target.ExportOptions{
		BatchSize: p.cfg.Target.BatchSize,
		Truncate:  p.cfg.Target.Truncate,
		Tracker:   tracker,
	})
	if err != nil {
		return n, err
	}
	tracker.Finish()
	return n, nil
}

// Run performs the read and split stages, then the stages selected by opts.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Stats, error) {
	stats := &Stats{}
	logging.Info("Run %s: reading %s", p.runID, p.cfg.Input.Path)

	start := time.Now()
	tbl, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	defer tbl.Release()
	stats.ReadTime = time.Since(start)
	logging.Debug("Read %d rows in %d columns", tbl.NumRows(), tbl.NumCols())

	start = time.Now()
	split, err := p.Split(tbl)
	if err != nil {
		return nil, fmt.Errorf("splitting columns: %w", err)
	}
	defer split.Release()
	stats.SplitTime = time.Since(start)
	stats.Rows = split.NumRows()

	start = time.Now()
	if opts.Render {
		if err := p.renderTo(opts.Output, split); err != nil {
			return nil, fmt.Errorf("rendering output: %w", err)
		}
	}
	if opts.Export {
		stats.Exported, err = p.Export(ctx, split, opts.Progress)
		if err != nil {
			return nil, fmt.Errorf("exporting to %s: %w", p.cfg.Target.Type, err)
		}
	}
	stats.WriteTime = time.Since(start)

	logging.Info("Run %s complete: %s", p.runID, stats)
	return stats, nil
}

func (p *Pipeline) renderTo(w io.Writer, tbl arrow.Table) error {
	if w != nil {
		return p.Render(w, tbl)
	}
	if p.cfg.Output.Path == "" {
		return p.Render(os.Stdout, tbl)
	}

	f, err := os.Create(p.cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := p.Render(f, tbl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
