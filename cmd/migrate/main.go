package main

import (
	"fmt"
	"log"
	"os"

	schedulerconfig "golang-paper-trader/internal/scheduler/config"
	pkgconfig "golang-paper-trader/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	migrationsPath string
)

func dsn(db pkgconfig.Database) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User, db.Password, db.Host, db.Port, db.DBName, db.SSLMode)
}

func newMigrator() *migrate.Migrate {
	cfg, err := schedulerconfig.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	m, err := migrate.New("file://"+migrationsPath, dsn(cfg.Database))
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}
	return m
}

func finish(m *migrate.Migrate, err error, msg string) {
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migration failed: %v", err)
	}
	if err == migrate.ErrNoChange {
		fmt.Println("No pending migrations.")
	} else {
		fmt.Println(msg)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("close migration source: %v", srcErr)
	}
	if dbErr != nil {
		log.Printf("close migration database: %v", dbErr)
	}
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		m := newMigrator()
		finish(m, m.Up(), "Applied migrations.")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent database migration",
	Run: func(cmd *cobra.Command, args []string) {
		m := newMigrator()
		finish(m, m.Steps(-1), "Reverted last migration.")
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "migrate"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-scheduler.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&migrationsPath, "path", "p", "migrations", "Path to the migrations directory")

	rootCmd.AddCommand(upCmd, downCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %s\n", err)
		os.Exit(1)
	}
}
