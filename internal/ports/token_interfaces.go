package ports

import (
	"context"
	"net/http"

	"exam-dashboard-server/internal/model"
)

// TokenStore : доступ к трём именованным кукам (accessToken, refreshToken, userData)
type TokenStore interface {
	SetAccessToken(token string) error
	SetRefreshToken(record model.RefreshTokenRecord)
	ClearTokens()
	GetAccessToken() (string, bool)
	GetRefreshToken() (string, bool)
	IsAuthenticated() bool
	IsExpired() bool
	SetUserData(data *model.UserData) error
	GetUserData() *model.UserData
}

// TokenRefresher : обмен сохранённого refresh токена на новую пару.
// Пустая строка без ошибки означает "новый токен не получен".
type TokenRefresher interface {
	Refresh(ctx context.Context, store TokenStore) (string, error)
}

// Doer : минимальный HTTP клиент
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
