// seedadmin grants the ADMIN role to a principal, creating it when it does not
// exist. It is the only way to obtain the first administrator.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"journal_backend/internal/app/config"
	"journal_backend/internal/app/di"
	authdto "journal_backend/internal/feature/auth/transport/http/dto"
	"journal_backend/internal/feature/journal/domain/entity"
	"journal_backend/internal/platform/credential"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var username, password, envFile string

	flagSet := pflag.NewFlagSet("seedadmin", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVarP(&username, "username", "u", "", "principal to promote")
	flagSet.StringVarP(&password, "password", "p", "", "password used if the principal has to be created")
	flagSet.StringVar(&envFile, "env", ".env", "dotenv file to load")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if username == "" {
		return fmt.Errorf("--username is required")
	}
	if !authdto.ValidUsername(username) {
		return fmt.Errorf("invalid username %q: use 3-64 letters, digits, '_', '.' or '-'", username)
	}

	cfg, err := config.LoadStore(envFile)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

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

	p, err := journal.Roles.GrantRole(ctx, username, entity.RoleAdmin, entity.PrincipalSeed{Password: password})
	if err != nil {
		return fmt.Errorf("grant admin to %q: %w", username, err)
	}
	fmt.Fprintf(out, "%s now holds %v\n", p.Username, p.Roles.Strings())
	return nil
}
