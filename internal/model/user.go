package model

import (
	"strconv"
	"time"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Known study programs. The registration form constrains prodi to these on the
// client; the server accepts any non-empty value.
var Programs = []string{
	"Sistem Informasi",
	"Teknik Informatika",
	"Manajemen",
	"Akuntansi",
}

// User is a membership record. Deletes are hard deletes, so no gorm.Model /
// DeletedAt here.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nama         string    `gorm:"not null" json:"nama"`
	NIM          string    `gorm:"column:nim;uniqueIndex;not null" json:"nim"`
	Angkatan     string    `gorm:"not null" json:"angkatan"`
	Prodi        string    `gorm:"not null" json:"prodi"`
	PasswordHash string    `gorm:"not null" json:"-"`
	KTMPath      string    `gorm:"column:ktm_path" json:"-"`
	Role         string    `gorm:"default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the only user shape returned by the API. The id is a string,
// matching what the admin dashboard client expects.
type PublicUser struct {
	ID       string `json:"id"`
	Nama     string `json:"nama"`
	NIM      string `json:"nim"`
	Angkatan string `json:"angkatan"`
	Prodi    string `json:"prodi"`
	Role     string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       strconv.FormatUint(uint64(u.ID), 10),
		Nama:     u.Nama,
		NIM:      u.NIM,
		Angkatan: u.Angkatan,
		Prodi:    u.Prodi,
		Role:     u.Role,
	}
}
