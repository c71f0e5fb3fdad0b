package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"bookingdesk/internal/infrastructure/persistence"
	"bookingdesk/internal/infrastructure/security"
	mongoRepo "bookingdesk/internal/interface/repository"
	"bookingdesk/internal/usecase"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default users and sample suppliers",
		Long: `Create admin, agent and account users plus sample suppliers.

Users that already exist are skipped. Suppliers are only created when none exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), rootOpts, cmd.OutOrStdout())
		},
	}
}

func runSeed(ctx context.Context, opts *RootOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cfg := opts.cfg
	client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer client.Disconnect(context.Background())

	users := mongoRepo.NewMongoUserRepository(db)
	suppliers := mongoRepo.NewMongoSupplierRepository(db)
	audits := mongoRepo.NewMongoAuditRepository(db)
	if err := mongoRepo.EnsureIndexes(ctx, users, suppliers, audits); err != nil {
		return err
	}

	audit := usecase.NewAuditTrail(audits, opts.log, nil)
	identity := usecase.NewIdentity(users, suppliers, security.BcryptHasher{}, nil, audit, opts.log)

	report, err := identity.Seed(ctx)
	if report != nil {
		printSeedReport(out, report)
	}
	return err
}

func printSeedReport(out io.Writer, report *usecase.SeedReport) {
	for _, email := range report.CreatedUsers {
		fmt.Fprintf(out, "created user %s\n", email)
	}
	for _, email := range report.SkippedUsers {
		fmt.Fprintf(out, "user %s already exists\n", email)
	}
	fmt.Fprintf(out, "created %d sample suppliers\n", report.CreatedSuppliers)
	fmt.Fprintln(out, "\nDefault logins:")
	for _, u := range usecase.DefaultUsers {
		fmt.Fprintf(out, "  %s: %s / %s\n", u.Role, u.Email, u.Password)
	}
}
