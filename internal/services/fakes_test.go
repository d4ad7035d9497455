package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault-backend/internal/database"
	"filevault-backend/internal/models"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) Insert(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	s.users[id] = &stored
	return id, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, database.ErrNoDocument
}

func (s *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNoDocument
	}
	return u, nil
}

type fakeSessionStore struct {
	sessions map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]string)}
}

func (s *fakeSessionStore) Set(_ context.Context, token, userID string, _ time.Duration) error {
	s.sessions[token] = userID
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, token string) (string, error) {
	return s.sessions[token], nil
}

func (s *fakeSessionStore) Del(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

// fakeFileStore keeps insertion order so paging behaves like the real
// aggregation pipeline.
type fakeFileStore struct {
	files []*models.File
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{}
}

func (s *fakeFileStore) Insert(_ context.Context, file *models.File) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *file
	stored.ID = id
	s.files = append(s.files, &stored)
	return id, nil
}

func (s *fakeFileStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.File, error) {
	for _, f := range s.files {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, database.ErrNoDocument
}

func (s *fakeFileStore) List(_ context.Context, ownerID, parentID primitive.ObjectID, page int64) ([]*models.File, error) {
	matched := make([]*models.File, 0)
	for _, f := range s.files {
		if f.UserID == ownerID && f.ParentID == parentID {
			matched = append(matched, f)
		}
	}

	start := page * database.PageSize
	if start >= int64(len(matched)) {
		return []*models.File{}, nil
	}
	end := start + database.PageSize
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[start:end], nil
}

func (s *fakeFileStore) SetPublic(_ context.Context, id primitive.ObjectID, isPublic bool) error {
	for _, f := range s.files {
		if f.ID == id {
			f.IsPublic = isPublic
			return nil
		}
	}
	return database.ErrNoDocument
}

type fakeQueue struct {
	jobs [][2]string
}

func (q *fakeQueue) Enqueue(_ context.Context, fileID, userID string) error {
	q.jobs = append(q.jobs, [2]string{fileID, userID})
	return nil
}
