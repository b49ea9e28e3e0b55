package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"loan-predictor/config"
)

func configureLogger(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetReportCaller(level >= log.DebugLevel)

	if cfg.Format == "text" {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
		return nil
	}
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	return nil
}
