package thumbs

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault-backend/internal/models"
	"filevault-backend/internal/storage"
)

type fakeFinder struct {
	files map[primitive.ObjectID]*models.File
}

func (f *fakeFinder) GetByID(_ context.Context, id primitive.ObjectID) (*models.File, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, ErrFileNotFound
	}
	return file, nil
}

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestProcessor_GeneratesAllSizes(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "original")
	writeTestPNG(t, localPath, 800, 600)

	owner := primitive.NewObjectID()
	file := &models.File{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Name:      "cat.png",
		Type:      models.FileTypeImage,
		LocalPath: localPath,
	}
	finder := &fakeFinder{files: map[primitive.ObjectID]*models.File{file.ID: file}}

	p := NewProcessor(finder, []int{500, 250, 100}, log.NewEntry(log.New()))

	task, err := NewGenerateTask(file.ID.Hex(), owner.Hex())
	require.NoError(t, err)
	require.NoError(t, p.ProcessTask(context.Background(), task))

	for _, width := range []int{500, 250, 100} {
		thumb, err := imaging.Open(storage.VariantPath(localPath, width))
		require.NoError(t, err, "variant %d must exist", width)
		assert.Equal(t, width, thumb.Bounds().Dx())
	}
}

func TestProcessor_RedeliveryOverwrites(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "original")
	writeTestPNG(t, localPath, 400, 400)

	owner := primitive.NewObjectID()
	file := &models.File{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Name:      "cat.png",
		LocalPath: localPath,
	}
	finder := &fakeFinder{files: map[primitive.ObjectID]*models.File{file.ID: file}}
	p := NewProcessor(finder, []int{100}, log.NewEntry(log.New()))

	task, err := NewGenerateTask(file.ID.Hex(), owner.Hex())
	require.NoError(t, err)

	require.NoError(t, p.ProcessTask(context.Background(), task))
	require.NoError(t, p.ProcessTask(context.Background(), task))

	thumb, err := imaging.Open(storage.VariantPath(localPath, 100))
	require.NoError(t, err)
	assert.Equal(t, 100, thumb.Bounds().Dx())
}

func TestProcessor_FailsJob(t *testing.T) {
	finder := &fakeFinder{files: map[primitive.ObjectID]*models.File{}}
	p := NewProcessor(finder, []int{100}, log.NewEntry(log.New()))

	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"missing fileId", `{"userId":"aaaaaaaaaaaaaaaaaaaaaaaa"}`, ErrMissingFileID},
		{"missing userId", `{"fileId":"aaaaaaaaaaaaaaaaaaaaaaaa"}`, ErrMissingUserID},
		{"unknown file", `{"fileId":"aaaaaaaaaaaaaaaaaaaaaaaa","userId":"bbbbbbbbbbbbbbbbbbbbbbbb"}`, ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := asynq.NewTask(TypeGenerate, []byte(tt.payload))
			assert.ErrorIs(t, p.ProcessTask(context.Background(), task), tt.wantErr)
		})
	}
}

func TestProcessor_WrongOwnerFailsJob(t *testing.T) {
	file := &models.File{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		Name:      "cat.png",
		LocalPath: "/nowhere",
	}
	finder := &fakeFinder{files: map[primitive.ObjectID]*models.File{file.ID: file}}
	p := NewProcessor(finder, []int{100}, log.NewEntry(log.New()))

	task, err := NewGenerateTask(file.ID.Hex(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.ErrorIs(t, p.ProcessTask(context.Background(), task), ErrFileNotFound)
}

func TestProcessor_UnreadableSourceDoesNotFailJob(t *testing.T) {
	owner := primitive.NewObjectID()
	file := &models.File{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Name:      "cat.png",
		LocalPath: filepath.Join(t.TempDir(), "gone"),
	}
	finder := &fakeFinder{files: map[primitive.ObjectID]*models.File{file.ID: file}}
	p := NewProcessor(finder, []int{500, 250, 100}, log.NewEntry(log.New()))

	task, err := NewGenerateTask(file.ID.Hex(), owner.Hex())
	require.NoError(t, err)

	// resize attempts are best-effort, the task itself still succeeds
	assert.NoError(t, p.ProcessTask(context.Background(), task))
}
