package thumbs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-multierror"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"filevault-backend/internal/models"
	"filevault-backend/internal/storage"
)

var (
	ErrMissingFileID = errors.New("missing fileId")
	ErrMissingUserID = errors.New("missing userId")
	ErrFileNotFound  = errors.New("file not found")
)

type FileFinder interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error)
}

// Processor handles thumbnail:generate tasks. Each task resizes one uploaded
// image to the configured widths, written alongside the original with a
// _<width> suffix. A missing record fails the whole job; a failed resize of
// a single width is logged and the remaining widths still run.
type Processor struct {
	files  FileFinder
	widths []int
	l      *log.Entry
}

func NewProcessor(files FileFinder, widths []int, l *log.Entry) *Processor {
	return &Processor{files: files, widths: widths, l: l}
}

func (p *Processor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload GeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal thumbnail payload: %w", err)
	}
	if payload.FileID == "" {
		return ErrMissingFileID
	}
	if payload.UserID == "" {
		return ErrMissingUserID
	}

	fileID, err := primitive.ObjectIDFromHex(payload.FileID)
	if err != nil {
		return fmt.Errorf("malformed fileId %q: %w", payload.FileID, err)
	}
	userID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		return fmt.Errorf("malformed userId %q: %w", payload.UserID, err)
	}

	file, err := p.files.GetByID(ctx, fileID)
	if err != nil || file.UserID != userID {
		return ErrFileNotFound
	}

	l := p.l.WithFields(log.Fields{
		"file_id":    payload.FileID,
		"local_path": file.LocalPath,
	})

	var mu sync.Mutex
	var merr *multierror.Error

	eg := &errgroup.Group{}
	eg.SetLimit(len(p.widths))
	for _, width := range p.widths {
		eg.Go(func() error {
			if err := generate(file, width); err != nil {
				l.WithField("width", width).WithError(err).Error("thumbnail generation failed")
				mu.Lock()
				merr = multierror.Append(merr, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	if err := merr.ErrorOrNil(); err != nil {
		l.WithError(err).Warn("job finished with failed sizes")
	} else {
		l.Info("thumbnails generated")
	}
	return nil
}

// generate produces one resized copy. Width is fixed, height follows the
// aspect ratio. Output overwrites any previous copy at the same path, so
// redelivered jobs converge.
func generate(file *models.File, width int) error {
	src, err := imaging.Open(file.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to open source image: %w", err)
	}

	resized := imaging.Resize(src, width, 0, imaging.Lanczos)

	format, err := imaging.FormatFromExtension(filepath.Ext(file.Name))
	if err != nil {
		format = imaging.PNG
	}

	out, err := os.Create(storage.VariantPath(file.LocalPath, width))
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	if err := imaging.Encode(out, resized, format); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}
