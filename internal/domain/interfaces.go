package domain

import (
	"context"
	"mime/multipart"

	"ormawa.id/internal/model"
)

// RegisterInput carries the multipart registration form.
type RegisterInput struct {
	Nama     string
	NIM      string
	Angkatan string
	Prodi    string
	Password string
	KTM      *multipart.FileHeader
}

// UpdateInput overwrites the editable roster columns. All four fields are
// written as-is; password and KTM path are not editable through the roster.
type UpdateInput struct {
	Nama     string `json:"nama"`
	NIM      string `json:"nim"`
	Angkatan string `json:"angkatan"`
	Prodi    string `json:"prodi"`
}

// UserService defines the membership operations.
type UserService interface {
	// Register creates a user record with role "user" and stores the KTM scan
	Register(ctx context.Context, in RegisterInput) error
	// Login checks NIM + password and returns a session token with the public view
	Login(ctx context.Context, nim, password string) (string, *model.PublicUser, error)
	// GetByID loads a single user (used by /auth/me)
	GetByID(ctx context.Context, id uint) (*model.PublicUser, error)
	// List returns every record's public view, no pagination
	List(ctx context.Context) ([]model.PublicUser, error)
	// Update overwrites nama/nim/angkatan/prodi for the given id
	Update(ctx context.Context, id string, in UpdateInput) error
	// Delete hard-deletes by id; deleting a missing id is not an error
	Delete(ctx context.Context, id string) error
}
