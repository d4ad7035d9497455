package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault-backend/internal/database"
	"filevault-backend/internal/models"
	"filevault-backend/internal/storage"
)

var (
	ErrMissingName        = errors.New("missing name")
	ErrInvalidType        = errors.New("missing or invalid type")
	ErrMissingData        = errors.New("missing data")
	ErrInvalidData        = errors.New("data is not valid base64")
	ErrParentNotFound     = errors.New("parent not found")
	ErrParentNotFolder    = errors.New("parent is not a folder")
	ErrFileNotFound       = errors.New("file not found")
	ErrFolderHasNoContent = errors.New("a folder doesn't have content")
	ErrInvalidSize        = errors.New("invalid size")
)

// ThumbnailSizes are the widths the worker generates and the data endpoint
// serves, besides the original (size 0).
var ThumbnailSizes = []int{500, 250, 100}

type FileStore interface {
	Insert(ctx context.Context, file *models.File) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error)
	List(ctx context.Context, ownerID, parentID primitive.ObjectID, page int64) ([]*models.File, error)
	SetPublic(ctx context.Context, id primitive.ObjectID, isPublic bool) error
}

// ThumbnailQueue is the producer side of the job queue; delivery is
// at-least-once and generation is decoupled from the upload response.
type ThumbnailQueue interface {
	Enqueue(ctx context.Context, fileID, userID string) error
}

type FileService struct {
	files FileStore
	disk  *storage.LocalStorage
	queue ThumbnailQueue
}

func NewFileService(files FileStore, disk *storage.LocalStorage, queue ThumbnailQueue) *FileService {
	return &FileService{files: files, disk: disk, queue: queue}
}

func (s *FileService) CreateFolder(ctx context.Context, ownerID primitive.ObjectID, name string, parentID primitive.ObjectID) (*models.File, error) {
	return s.createFolder(ctx, ownerID, name, parentID, false)
}

func (s *FileService) createFolder(ctx context.Context, ownerID primitive.ObjectID, name string, parentID primitive.ObjectID, isPublic bool) (*models.File, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if err := s.checkParent(ctx, parentID); err != nil {
		return nil, err
	}

	folder := &models.File{
		UserID:   ownerID,
		Name:     name,
		Type:     models.FileTypeFolder,
		IsPublic: isPublic,
		ParentID: parentID,
	}

	id, err := s.files.Insert(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	folder.ID = id

	return folder, nil
}

// CreateFile decodes the base64 payload, writes it to local storage and
// persists the metadata document. The two steps are not transactional: a
// crash in between can leave an orphaned file on disk. Images additionally
// get a thumbnail job enqueued.
func (s *FileService) CreateFile(ctx context.Context, ownerID primitive.ObjectID, name string, fileType models.FileType, parentID primitive.ObjectID, data string, isPublic bool) (*models.File, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if !fileType.Valid() {
		return nil, ErrInvalidType
	}
	if fileType == models.FileTypeFolder {
		return s.createFolder(ctx, ownerID, name, parentID, isPublic)
	}
	if data == "" {
		return nil, ErrMissingData
	}
	if err := s.checkParent(ctx, parentID); err != nil {
		return nil, err
	}

	content, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrInvalidData
	}

	localPath, err := s.disk.Save(content)
	if err != nil {
		return nil, fmt.Errorf("failed to store file content: %w", err)
	}

	file := &models.File{
		UserID:    ownerID,
		Name:      name,
		Type:      fileType,
		IsPublic:  isPublic,
		ParentID:  parentID,
		LocalPath: localPath,
	}

	id, err := s.files.Insert(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}
	file.ID = id

	if fileType == models.FileTypeImage {
		if err := s.queue.Enqueue(ctx, file.ID.Hex(), ownerID.Hex()); err != nil {
			return nil, fmt.Errorf("failed to enqueue thumbnail job: %w", err)
		}
	}

	return file, nil
}

// GetFile returns the record when the requester owns it or it is public.
// Anything else, including a record that simply belongs to someone else,
// reads as not found.
func (s *FileService) GetFile(ctx context.Context, requesterID, fileID primitive.ObjectID) (*models.File, error) {
	file, err := s.lookup(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != requesterID && !file.IsPublic {
		return nil, ErrFileNotFound
	}
	return file, nil
}

func (s *FileService) ListFiles(ctx context.Context, requesterID, parentID primitive.ObjectID, page int64) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}
	files, err := s.files.List(ctx, requesterID, parentID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func (s *FileService) SetPublic(ctx context.Context, requesterID, fileID primitive.ObjectID, isPublic bool) (*models.File, error) {
	file, err := s.lookup(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != requesterID {
		return nil, ErrFileNotFound
	}

	if err := s.files.SetPublic(ctx, fileID, isPublic); err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to update file: %w", err)
	}

	file.IsPublic = isPublic
	return file, nil
}

// ReadContent serves the stored bytes of a file, or one of its thumbnail
// variants when size is 100, 250 or 500. Private files read as not found for
// anyone but the owner, and so does a variant that hasn't been generated yet.
func (s *FileService) ReadContent(ctx context.Context, requesterID, fileID primitive.ObjectID, size int) ([]byte, string, error) {
	file, err := s.lookup(ctx, fileID)
	if err != nil {
		return nil, "", err
	}
	if !file.IsPublic && file.UserID != requesterID {
		return nil, "", ErrFileNotFound
	}
	if file.Type == models.FileTypeFolder {
		return nil, "", ErrFolderHasNoContent
	}

	path := file.LocalPath
	if size != 0 {
		if !validSize(size) {
			return nil, "", ErrInvalidSize
		}
		path = storage.VariantPath(file.LocalPath, size)
	}

	content, err := s.disk.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrFileNotFound
		}
		return nil, "", fmt.Errorf("failed to read file content: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(file.Name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return content, mimeType, nil
}

func (s *FileService) lookup(ctx context.Context, fileID primitive.ObjectID) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}

func (s *FileService) checkParent(ctx context.Context, parentID primitive.ObjectID) error {
	if parentID.IsZero() {
		return nil
	}

	parent, err := s.files.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return ErrParentNotFound
		}
		return fmt.Errorf("failed to get parent: %w", err)
	}
	if parent.Type != models.FileTypeFolder {
		return ErrParentNotFolder
	}
	return nil
}

func validSize(size int) bool {
	for _, s := range ThumbnailSizes {
		if s == size {
			return true
		}
	}
	return false
}
