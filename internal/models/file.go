package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// File is a document in the "files" collection. A zero ParentID means the
// record lives at the root; otherwise ParentID must reference a folder.
// LocalPath is set for every type except folder and is never exposed to
// clients.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Type      FileType           `bson:"type" json:"type"`
	IsPublic  bool               `bson:"isPublic" json:"isPublic"`
	ParentID  primitive.ObjectID `bson:"parentId" json:"-"`
	LocalPath string             `bson:"localPath,omitempty" json:"-"`
}
