package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"ormawa.id/internal/auth"
	"ormawa.id/internal/domain"
	"ormawa.id/internal/model"
	"ormawa.id/internal/storage"
)

// Client-facing messages. Kept in Indonesian to match the registration and
// admin dashboard clients.
const (
	MsgAllFieldsRequired = "Semua field wajib diisi"
	MsgKTMRequired       = "KTM wajib diupload"
	MsgNIMTaken          = "NIM sudah terdaftar"
	MsgLoginRequired     = "NIM dan password wajib diisi"
	MsgBadCredentials    = "NIM atau password salah"
	MsgInternal          = "Terjadi kesalahan"
	MsgUserNotFound      = "User tidak ditemukan"
)

// UserServiceImpl implements domain.UserService on top of gorm, the upload
// store and the optional roster cache.
type UserServiceImpl struct {
	db       *gorm.DB
	uploads  *storage.UploadStore
	cache    *RosterCache
	secret   []byte
	tokenTTL time.Duration
}

func NewUserService(db *gorm.DB, uploads *storage.UploadStore, cache *RosterCache, secret []byte, tokenTTL time.Duration) *UserServiceImpl {
	return &UserServiceImpl{
		db:       db,
		uploads:  uploads,
		cache:    cache,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register validates the form, hashes the password, stores the KTM scan and
// inserts the record with role forced to "user". The unique index on nim is
// the concurrency guard: a racing duplicate comes back as a 409.
func (s *UserServiceImpl) Register(ctx context.Context, in domain.RegisterInput) error {
	if in.Nama == "" || in.NIM == "" || in.Angkatan == "" || in.Prodi == "" || in.Password == "" {
		return domain.NewBadRequestError(MsgAllFieldsRequired)
	}
	if in.KTM == nil {
		return domain.NewBadRequestError(MsgKTMRequired)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.NewInternalError(MsgInternal, err)
	}

	src, err := in.KTM.Open()
	if err != nil {
		return domain.NewInternalError(MsgInternal, err)
	}
	defer src.Close()

	ktmPath, err := s.uploads.Store(src, in.KTM.Filename, in.KTM.Header.Get("Content-Type"), in.KTM.Size)
	if err != nil {
		if errors.Is(err, storage.ErrNotAnImage) || errors.Is(err, storage.ErrTooLarge) {
			return domain.NewBadRequestError(err.Error())
		}
		return domain.NewInternalError(MsgInternal, err)
	}

	user := model.User{
		Nama:         in.Nama,
		NIM:          in.NIM,
		Angkatan:     in.Angkatan,
		Prodi:        in.Prodi,
		PasswordHash: hash,
		KTMPath:      ktmPath,
		Role:         model.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(MsgNIMTaken)
		}
		return domain.NewInternalError(MsgInternal, err)
	}

	s.cache.Invalidate(ctx)
	return nil
}

// Login authenticates by NIM and password. An unknown NIM and a wrong
// password return the identical error, so callers cannot probe for
// registered NIMs.
func (s *UserServiceImpl) Login(ctx context.Context, nim, password string) (string, *model.PublicUser, error) {
	if nim == "" || password == "" {
		return "", nil, domain.NewBadRequestError(MsgLoginRequired)
	}

	var user model.User
	if err := s.db.WithContext(ctx).Where("nim = ?", nim).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.NewUnauthorizedError(MsgBadCredentials)
		}
		return "", nil, domain.NewInternalError(MsgInternal, err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, domain.NewUnauthorizedError(MsgBadCredentials)
	}

	token, err := auth.GenerateToken(user.ID, user.Role, user.NIM, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, domain.NewInternalError(MsgInternal, err)
	}

	view := user.Public()
	return token, &view, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uint) (*model.PublicUser, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(MsgUserNotFound)
		}
		return nil, domain.NewInternalError(MsgInternal, err)
	}
	view := user.Public()
	return &view, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]model.PublicUser, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	var users []model.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, domain.NewInternalError(MsgInternal, err)
	}

	views := make([]model.PublicUser, 0, len(users))
	for i := range users {
		views = append(views, users[i].Public())
	}

	s.cache.Set(ctx, views)
	return views, nil
}

// Update overwrites the four editable columns unconditionally. NIM uniqueness
// is not re-checked here; the database constraint still refuses a duplicate,
// which surfaces as an internal error.
func (s *UserServiceImpl) Update(ctx context.Context, id string, in domain.UpdateInput) error {
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", parseID(id)).Updates(map[string]interface{}{
		"nama":     in.Nama,
		"nim":      in.NIM,
		"angkatan": in.Angkatan,
		"prodi":    in.Prodi,
	}).Error
	if err != nil {
		return domain.NewInternalError(MsgInternal, err)
	}

	s.cache.Invalidate(ctx)
	return nil
}

// Delete hard-deletes by id. A missing id is still a success, and the
// uploaded KTM file is left in place.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.User{}, parseID(id)).Error; err != nil {
		return domain.NewInternalError(MsgInternal, err)
	}

	s.cache.Invalidate(ctx)
	return nil
}

// parseID follows the source's loose id handling: a non-numeric id matches
// nothing instead of failing the request.
func parseID(id string) uint64 {
	n, _ := strconv.ParseUint(id, 10, 64)
	return n
}
