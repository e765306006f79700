package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/nkiryanov/payengine/internal/decoder"
	"github.com/nkiryanov/payengine/internal/ledger"
	"github.com/nkiryanov/payengine/internal/logger"
	"github.com/nkiryanov/payengine/internal/report"
)

// App reads one transaction stream, feeds it to the ledger and writes the
// final account report
type App struct {
	cfg    *Config
	logger logger.Logger
	stdout io.Writer
}

func NewApp(c *Config, stdout io.Writer) (*App, error) {
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	if c.InputFile == "" {
		return nil, errors.New("input file not specified")
	}

	return &App{
		cfg:    c,
		logger: log.With("run_id", uuid.NewString()),
		stdout: stdout,
	}, nil
}

// Run processes the whole input file and, if every transaction applied
// cleanly, writes the report. On any error no report is produced.
func (a *App) Run(ctx context.Context) error {
	f, err := os.Open(a.cfg.InputFile)
	if err != nil {
		return fmt.Errorf("can't open input file. Err: %w", err)
	}
	defer f.Close()

	reader, err := decoder.NewReader(f)
	if err != nil {
		return fmt.Errorf("can't read input file %q. Err: %w", a.cfg.InputFile, err)
	}

	a.logger.Info("processing started", "input", a.cfg.InputFile)

	led := ledger.New(a.logger)

	applied := 0
	for {
		// Stop between records on interrupt; a cancelled run produces
		// no report
		if err := ctx.Err(); err != nil {
			return err
		}

		tx, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("can't decode record %d. Err: %w", applied+1, err)
		}

		if err := led.Apply(tx); err != nil {
			return fmt.Errorf("can't apply transaction. Err: %w", err)
		}
		applied++
	}

	a.logger.Info("processing finished", "transactions", applied)

	return a.writeReport(led)
}

func (a *App) writeReport(led *ledger.Ledger) error {
	if a.cfg.OutputFile == "" {
		return report.Write(a.stdout, led.Snapshot())
	}

	f, err := os.Create(a.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("can't create output file. Err: %w", err)
	}

	if err := report.Write(f, led.Snapshot()); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
