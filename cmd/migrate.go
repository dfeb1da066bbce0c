package cmd

import (
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/planforge/ms-go-plans/config"
	"github.com/planforge/ms-go-plans/migrations"

	_ "github.com/go-sql-driver/mysql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.Load()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load configuration")
		}
		if err := configureLogging(cfg); err != nil {
			logrus.WithError(err).Fatal("Failed to configure logging")
		}

		db, err := openDatabase(cfg)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		goose.SetBaseFS(migrations.FS)
		if err := goose.SetDialect("mysql"); err != nil {
			logrus.WithError(err).Fatal("Failed to set migration dialect")
		}
		if err := goose.Up(db, "."); err != nil {
			logrus.WithError(err).Fatal("Failed to apply migrations")
		}
		logrus.Info("Migrations applied")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
