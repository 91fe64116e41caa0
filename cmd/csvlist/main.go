package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/johndauphine/csvlist/internal/config"
	"github.com/johndauphine/csvlist/internal/logging"
	"github.com/johndauphine/csvlist/internal/pipeline"
	"github.com/johndauphine/csvlist/internal/source"
	"github.com/johndauphine/csvlist/internal/util"
	"github.com/johndauphine/csvlist/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Error("%v", err)
		_ = logging.Sync()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    version.Name,
		Usage:   version.Description,
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "split",
				Usage:     "Split columns and print the resulting table",
				ArgsUsage: "[input]",
				Flags:     inputFlags(),
				Action:    runSplit,
			},
			{
				Name:      "export",
				Usage:     "Split columns and write the table to a SQL database",
				ArgsUsage: "[input]",
				Flags:     append(inputFlags(), targetFlags()...),
				Action:    runExport,
			},
			{
				Name:      "schema",
				Usage:     "Describe the table before and after splitting",
				ArgsUsage: "[input]",
				Flags:     inputFlags(),
				Action:    showSchema,
			},
		},
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Delimited input file"},
		&cli.StringSliceFlag{Name: "column", Aliases: []string{"col"}, Usage: "Column to split (repeatable or comma-separated)"},
		&cli.StringFlag{Name: "field-delimiter", Usage: "Input field delimiter (default \"|\")"},
		&cli.StringFlag{Name: "token-delimiter", Usage: "Delimiter between tokens within a cell (default \";\")"},
		&cli.StringSliceFlag{Name: "null-value", Usage: "Cell value read as null (repeatable)"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format (text, json)"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default stdout)"},
		&cli.Int64Flag{Name: "memory-limit-mb", Usage: "Cap memory used by split columns"},
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Usage: "Target type (postgres, sqlite, mssql)"},
		&cli.StringFlag{Name: "target-path", Usage: "SQLite database file"},
		&cli.StringFlag{Name: "host", Usage: "Target host"},
		&cli.IntFlag{Name: "port", Usage: "Target port"},
		&cli.StringFlag{Name: "database", Usage: "Target database"},
		&cli.StringFlag{Name: "user", Usage: "Target user"},
		&cli.StringFlag{Name: "password", EnvVars: []string{"CSVLIST_PASSWORD"}, Usage: "Target password"},
		&cli.StringFlag{Name: "schema", Usage: "Target schema"},
		&cli.StringFlag{Name: "table", Usage: "Target table (default derived from input file name)"},
		&cli.IntFlag{Name: "batch-size", Usage: "Rows per write batch"},
		&cli.BoolFlag{Name: "truncate", Usage: "Empty the target table before writing"},
		&cli.BoolFlag{Name: "print", Usage: "Also print the split table"},
		&cli.BoolFlag{Name: "no-progress", Usage: "Disable the progress bar"},
	}
}

// loadConfig reads the config file when given, applies command line overrides,
// then fills defaults and validates the merged result.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if c.Args().Present() {
		cfg.Input.Path = c.Args().First()
	}
	if c.IsSet("input") {
		cfg.Input.Path = c.String("input")
	}
	if c.IsSet("column") {
		cfg.Split.Columns = columnsFlag(c.StringSlice("column"))
	}
	if c.IsSet("field-delimiter") {
		cfg.Input.Delimiter = c.String("field-delimiter")
	}
	if c.IsSet("token-delimiter") {
		cfg.Split.Delimiter = c.String("token-delimiter")
	}
	if c.IsSet("null-value") {
		cfg.Input.NullValues = c.StringSlice("null-value")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("output") {
		cfg.Output.Path = c.String("output")
	}
	if c.IsSet("memory-limit-mb") {
		cfg.MemoryLimitMB = c.Int64("memory-limit-mb")
	}
	applyTargetFlags(c, &cfg.Target)
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("no input file given (use --input or input.path)")
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logging.SetLevel(level)
	logging.SetFormat(cfg.Logging.Format)
	return cfg, nil
}

func applyTargetFlags(c *cli.Context, t *config.TargetConfig) {
	if c.IsSet("target") {
		t.Type = c.String("target")
	}
	if c.IsSet("target-path") {
		t.Path = c.String("target-path")
	}
	if c.IsSet("host") {
		t.Host = c.String("host")
	}
	if c.IsSet("port") {
		t.Port = c.Int("port")
	}
	if c.IsSet("database") {
		t.Database = c.String("database")
	}
	if c.IsSet("user") {
		t.User = c.String("user")
	}
	if c.IsSet("password") {
		t.Password = c.String("password")
	}
	if c.IsSet("schema") {
		t.Schema = c.String("schema")
	}
	if c.IsSet("table") {
		t.Table = c.String("table")
	}
	if c.IsSet("batch-size") {
		t.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("truncate") {
		t.Truncate = c.Bool("truncate")
	}
}

// columnsFlag flattens repeated and comma-separated --column values.
func columnsFlag(values []string) []string {
	var cols []string
	for _, v := range values {
		cols = append(cols, util.SplitCSV(v)...)
	}
	return cols
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			logging.Warn("Interrupted, stopping")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func runSplit(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, err = pipeline.New(cfg).Run(ctx, pipeline.RunOptions{Render: true, Output: outputWriter(c, cfg)})
	return err
}

func runExport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Target.Type == "" {
		return fmt.Errorf("no target given (use --target or target.type)")
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := pipeline.RunOptions{
		Export: true,
		Render: c.Bool("print"),
		Output: outputWriter(c, cfg),
	}
	if !c.Bool("no-progress") {
		opts.Progress = c.App.ErrWriter
		if opts.Progress == nil {
			opts.Progress = os.Stderr
		}
	}
	stats, err := pipeline.New(cfg).Run(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Exported %d rows to %s\n", stats.Exported, cfg.Target.Table)
	return nil
}

// outputWriter returns the app writer unless an output file is configured.
func outputWriter(c *cli.Context, cfg *config.Config) io.Writer {
	if cfg.Output.Path != "" {
		return nil
	}
	return c.App.Writer
}

func showSchema(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p := pipeline.New(cfg)
	tbl, err := p.Load(ctx)
	if err != nil {
		return err
	}
	defer tbl.Release()

	split, err := p.Split(tbl)
	if err != nil {
		return err
	}
	defer split.Release()

	before := source.Describe(cfg.Input.Path, tbl)
	after := source.Describe(cfg.Target.Table, split)

	w := c.App.Writer
	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]*source.Table{"input": before, "split": after})
	}

	printTable(w, "Input", before)
	fmt.Fprintln(w)
	printTable(w, "Split", after)
	return nil
}

func printTable(w io.Writer, title string, t *source.Table) {
	fmt.Fprintf(w, "%s: %s (%d rows, %d chunks)\n", title, t.Name, t.RowCount, t.Chunks)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOLUMN\tTYPE\tNULLABLE\tNULLS")
	for _, col := range t.Columns {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%d\n", col.OrdinalPos, col.Name, col.DataType, col.IsNullable, col.NullCount)
	}
	tw.Flush()
}
