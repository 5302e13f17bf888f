package model

import "time"

type User struct {
	UUID         string    `db:"uuid" json:"uuid"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	FullName     string    `db:"full_name" json:"fullName"`
	Avatar       string    `db:"avatar" json:"avatar"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Display возвращает снапшот профиля для куки userData
func (u *User) Display() *UserData {
	return &UserData{
		FullName: u.FullName,
		Email:    u.Email,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
