package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault-backend/internal/dto"
	"filevault-backend/internal/middleware"
	"filevault-backend/internal/models"
	"filevault-backend/internal/services"
	"filevault-backend/utils/response"
)

type FileHandler struct {
	service *services.FileService
	auth    *services.AuthService
}

func NewFileHandler(service *services.FileService, auth *services.AuthService) *FileHandler {
	return &FileHandler{service: service, auth: auth}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.UploadFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parentID, err := dto.ParseParentID(req.ParentID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Parent not found")
		return
	}

	file, err := h.service.CreateFile(r.Context(), user.ID, req.Name, models.FileType(req.Type), parentID, req.Data, req.IsPublic)
	if err != nil {
		writeFileError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, dto.NewFileResponse(file))
}

func (h *FileHandler) GetShow(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	fileID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "Not found")
		return
	}

	file, err := h.service.GetFile(r.Context(), user.ID, fileID)
	if err != nil {
		writeFileError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.NewFileResponse(file))
}

func (h *FileHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	parentID, err := dto.ParseParentID(r.URL.Query().Get("parentId"))
	if err != nil {
		// an unknown parent matches nothing
		response.JSON(w, http.StatusOK, []dto.FileResponse{})
		return
	}

	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)

	files, err := h.service.ListFiles(r.Context(), user.ID, parentID, page)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	out := make([]dto.FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.NewFileResponse(f))
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *FileHandler) PutPublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, true)
}

func (h *FileHandler) PutUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, false)
}

func (h *FileHandler) setPublic(w http.ResponseWriter, r *http.Request, isPublic bool) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	fileID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "Not found")
		return
	}

	file, err := h.service.SetPublic(r.Context(), user.ID, fileID, isPublic)
	if err != nil {
		writeFileError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.NewFileResponse(file))
}

// GetData serves file content. No middleware here: a public file is readable
// without any session, so the token is resolved best-effort.
func (h *FileHandler) GetData(w http.ResponseWriter, r *http.Request) {
	fileID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "Not found")
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid size")
			return
		}
	}

	requesterID, _ := h.auth.ResolveSession(r.Context(), r.Header.Get(middleware.TokenHeader))

	content, mimeType, err := h.service.ReadContent(r.Context(), requesterID, fileID, size)
	if err != nil {
		writeFileError(w, err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func writeFileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMissingName):
		response.Error(w, http.StatusBadRequest, "Missing name")
	case errors.Is(err, services.ErrInvalidType):
		response.Error(w, http.StatusBadRequest, "Missing type")
	case errors.Is(err, services.ErrMissingData), errors.Is(err, services.ErrInvalidData):
		response.Error(w, http.StatusBadRequest, "Missing data")
	case errors.Is(err, services.ErrParentNotFound):
		response.Error(w, http.StatusBadRequest, "Parent not found")
	case errors.Is(err, services.ErrParentNotFolder):
		response.Error(w, http.StatusBadRequest, "Parent is not a folder")
	case errors.Is(err, services.ErrFolderHasNoContent):
		response.Error(w, http.StatusNotFound, "A folder doesn't have content")
	case errors.Is(err, services.ErrInvalidSize):
		response.Error(w, http.StatusBadRequest, "Invalid size")
	case errors.Is(err, services.ErrFileNotFound):
		response.Error(w, http.StatusNotFound, "Not found")
	default:
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
