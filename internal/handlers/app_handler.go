package handlers

import (
	"context"
	"net/http"

	"filevault-backend/internal/database"
	"filevault-backend/utils/response"
)

type livenessChecker interface {
	IsAlive(ctx context.Context) bool
}

// AppHandler serves the service liveness and counter endpoints.
type AppHandler struct {
	db    *database.DB
	cache livenessChecker
}

func NewAppHandler(db *database.DB, cache livenessChecker) *AppHandler {
	return &AppHandler{db: db, cache: cache}
}

func (h *AppHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]bool{
		"redis": h.cache.IsAlive(r.Context()),
		"db":    h.db.IsAlive(r.Context()),
	})
}

func (h *AppHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.NbUsers(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to count users")
		return
	}
	files, err := h.db.NbFiles(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to count files")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
