package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"filevault-backend/internal/cache"
	"filevault-backend/internal/config"
	"filevault-backend/internal/database"
	"filevault-backend/internal/handlers"
	"filevault-backend/internal/middleware"
	"filevault-backend/internal/services"
	"filevault-backend/internal/storage"
	"filevault-backend/internal/thumbs"
)

func main() {
	cfg := config.Load()

	l := log.New().WithFields(log.Fields{
		"port":        cfg.Port,
		"db_url":      cfg.DatabaseURL,
		"redis_addr":  cfg.RedisAddr,
		"folder_path": cfg.FolderPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.Database)
	if err != nil {
		l.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close(context.Background())

	sessions := cache.NewSessionStore(cfg.RedisAddr)
	defer sessions.Close()

	queue := thumbs.NewQueue(cfg.RedisAddr)
	defer queue.Close()

	users := database.NewUserRepository(db)
	files := database.NewFileRepository(db)
	disk := storage.NewLocalStorage(cfg.FolderPath)

	authService := services.NewAuthService(users, sessions)
	fileService := services.NewFileService(files, disk, queue)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	appHandler := handlers.NewAppHandler(db, sessions)
	authHandler := handlers.NewAuthHandler(authService)
	fileHandler := handlers.NewFileHandler(fileService, authService)

	router := http.NewServeMux()

	router.HandleFunc("GET /status", appHandler.GetStatus)
	router.HandleFunc("GET /stats", appHandler.GetStats)

	router.HandleFunc("POST /users", authHandler.RegisterUser)
	router.Handle("GET /users/me", authMiddleware.RequireToken(http.HandlerFunc(authHandler.GetMe)))

	router.HandleFunc("GET /connect", authHandler.Connect)
	router.HandleFunc("GET /disconnect", authHandler.Disconnect)

	router.Handle("POST /files", authMiddleware.RequireToken(http.HandlerFunc(fileHandler.Upload)))
	router.Handle("GET /files", authMiddleware.RequireToken(http.HandlerFunc(fileHandler.GetIndex)))
	router.Handle("GET /files/{id}", authMiddleware.RequireToken(http.HandlerFunc(fileHandler.GetShow)))
	router.Handle("PUT /files/{id}/publish", authMiddleware.RequireToken(http.HandlerFunc(fileHandler.PutPublish)))
	router.Handle("PUT /files/{id}/unpublish", authMiddleware.RequireToken(http.HandlerFunc(fileHandler.PutUnpublish)))
	router.HandleFunc("GET /files/{id}/data", fileHandler.GetData)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: router,
	}

	go func() {
		l.Infof("server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.WithError(err).Fatal("listen and serve returned err")
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")
	if err := server.Shutdown(context.Background()); err != nil {
		l.WithError(err).Error("server shutdown returned an err")
	}
}
