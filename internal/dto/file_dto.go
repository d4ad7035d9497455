package dto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault-backend/internal/models"
)

type UploadFileRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"` // base64, absent for folders
}

type FileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// NewFileResponse renders a file document the way clients expect it:
// hex IDs and the literal "0" for the root parent sentinel.
func NewFileResponse(f *models.File) FileResponse {
	parent := "0"
	if !f.ParentID.IsZero() {
		parent = f.ParentID.Hex()
	}
	return FileResponse{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     string(f.Type),
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

// ParseParentID maps the wire parentId ("", "0", or a hex ObjectID) to the
// document representation. The zero ObjectID stands for the root.
func ParseParentID(s string) (primitive.ObjectID, error) {
	if s == "" || s == "0" {
		return primitive.NilObjectID, nil
	}
	return primitive.ObjectIDFromHex(s)
}
