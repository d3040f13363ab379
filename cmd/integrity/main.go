// integrity runs one integrity scan over the configured store and prints the
// report as JSON. It exits 1 when violations are found.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"journal_backend/internal/app/config"
	"journal_backend/internal/app/di"
	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/platform/credential"
)

// errViolations is returned when the scan completed but found inconsistencies.
var errViolations = errors.New("integrity violations found")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var envFile string
	var timeout time.Duration

	flagSet := pflag.NewFlagSet("integrity", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&envFile, "env", ".env", "dotenv file to load")
	flagSet.DurationVar(&timeout, "timeout", time.Minute, "give up after this long")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadStore(envFile)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	infra, err := di.OpenInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	uow, err := di.NewUnitOfWork(cfg.StoreBackend, infra.DB, infra.Redis)
	if err != nil {
		return err
	}
	journal := di.NewJournal(uow, credential.NewBcryptHasher(cfg.BcryptCost), di.RetryPolicy(cfg))

	report, err := journal.Scanner.Scan(ctx)
	if err != nil && (report == nil || !errors.Is(err, domain.ErrInconsistentState)) {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if !report.Healthy() {
		return errViolations
	}
	return nil
}
