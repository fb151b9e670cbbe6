package main

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finances-tracker/internal/config"
	"github.com/carson-networks/finances-tracker/internal/logging"
	"github.com/carson-networks/finances-tracker/internal/storage"
)

func main() {
	logger := logging.SetupLogging()

	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	db, err := storage.Open(env)
	if err != nil {
		logger.WithError(err).Fatal("storage.Open")
		return
	}
	defer db.Close()

	status, err := db.Migrate()
	if err != nil {
		logger.WithError(err).Fatal("storage.Migrate")
		return
	}

	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  status.Before,
		"postMigrationVersion": status.After,
	}).Info("Migration status")
}
