package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"go-job-portal-backend/internal/app"
	"go-job-portal-backend/internal/repository/postgres"
	"go-job-portal-backend/internal/usecase"
	"go-job-portal-backend/pkg/database"
	"go-job-portal-backend/pkg/security"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		db, err := database.NewPostgresConnection(cmd.Context(), cfg.DBUrl)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		applied, err := postgres.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Println("Schema is up to date")
			return nil
		}
		for _, v := range applied {
			fmt.Println("applied", v)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the Candidate and Admin roles and the admin account from ADMIN_*",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		db, err := app.OpenDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		repos := app.NewRepositories(db)
		seeder := usecase.NewSeeder(repos.Users, repos.Roles, security.NewBcryptHasher(bcrypt.DefaultCost))
		return seeder.Seed(cmd.Context(), usecase.AdminAccount{
			Email:    cfg.AdminEmail,
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			Mobile:   cfg.AdminMobile,
		})
	},
}

var reapTTL time.Duration

var reapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Delete accounts that were never verified",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		ttl := cfg.UnverifiedUserTTL
		if reapTTL > 0 {
			ttl = reapTTL
		}

		db, err := app.OpenDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		audit := app.NewAuditLogger(cfg, db)
		defer audit.Sync()

		n, err := usecase.NewReaper(app.NewRepositories(db).Users, ttl, audit).Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d unverified user(s) older than %s\n", n, ttl)
		return nil
	},
}

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash, reading the password from stdin when no argument is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if password == "" {
			return fmt.Errorf("password is empty")
		}

		hash, err := security.NewBcryptHasher(hashCost).Hash(password)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	reapCmd.Flags().DurationVar(&reapTTL, "ttl", 0, "override UNVERIFIED_USER_TTL")
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
}
