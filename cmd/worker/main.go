package main

import (
	"context"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"filevault-backend/internal/config"
	"filevault-backend/internal/database"
	"filevault-backend/internal/services"
	"filevault-backend/internal/thumbs"
)

func main() {
	cfg := config.Load()

	l := log.New().WithFields(log.Fields{
		"db_url":     cfg.DatabaseURL,
		"redis_addr": cfg.RedisAddr,
	})

	db, err := database.Connect(context.Background(), cfg.DatabaseURL, cfg.Database)
	if err != nil {
		l.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close(context.Background())

	files := database.NewFileRepository(db)
	processor := thumbs.NewProcessor(files, services.ThumbnailSizes, l)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{Concurrency: 4},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(thumbs.TypeGenerate, processor.ProcessTask)

	l.Info("thumbnail worker starting")
	if err := srv.Run(mux); err != nil {
		l.WithError(err).Fatal("worker stopped")
	}
}
