package main

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	db, err := sql.Open("postgres", env.PostgresConnectionString())
	if err != nil {
		logrus.WithError(err).Fatal("sql.Open")
		return
	}
	defer db.Close()

	result, err := sqlconfig.RunMigrations(db)
	if err != nil {
		logrus.WithError(err).Fatal("sqlconfig.RunMigrations")
		return
	}

	logrus.WithFields(logrus.Fields{
		"database":             env.PostgresDB,
		"preMigrationVersion":  result.PreMigrationVersion,
		"postMigrationVersion": result.PostMigrationVersion,
	}).Info("Migration status")
}
