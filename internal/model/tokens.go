package model

import "time"

// RefreshToken : запись refresh-токена в базе данных identity provider.
// Клиенту уходит только исходная строка токена, в БД хранится её хэш.
type RefreshToken struct {
	UUID      string     `db:"uuid"`
	UserUUID  string     `db:"user_uuid"`
	TokenHash string     `db:"token_hash"`
	ExpireAt  time.Time  `db:"expire_at"`
	Used      bool       `db:"used"`
	UserAgent string     `db:"user_agent"`
	IpAddress string     `db:"ip_address"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

// RefreshTokenRecord : refresh-токен в том виде, в котором он уходит клиенту
// swagger:model
type RefreshTokenRecord struct {
	// Непрозрачная строка токена
	// example: vcSi0369y1I62wOpxZFpgZ...
	Token string `json:"token"`

	// Момент истечения токена (ISO datetime)
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokensPair содержит access токен и запись refresh токена
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"token"`

	// Refresh токен (для получения новой пары)
	RefreshToken RefreshTokenRecord `json:"refreshToken"`
}

// UserData : денормализованный снапшот профиля, кэшируемый в куке userData.
// Используется только для отображения, не участвует в аутентификации запросов.
type UserData struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
