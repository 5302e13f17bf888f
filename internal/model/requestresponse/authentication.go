package requestresponse

import "exam-dashboard-server/internal/model"

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"teacher@yesh.mn"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"vcSi0369y1I62wOpxZFpgZ"`
}

// AuthUserResponse : user-shaped ответ на login и refresh.
// Содержит профиль пользователя, access токен и запись refresh токена.
type AuthUserResponse struct {
	UUID         string                   `json:"uuid"`
	FullName     string                   `json:"fullName"`
	Email        string                   `json:"email"`
	Username     string                   `json:"username"`
	Avatar       string                   `json:"avatar"`
	Token        string                   `json:"token"`
	RefreshToken model.RefreshTokenRecord `json:"refreshToken"`
}

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Token    string `json:"token" example:"fixed_admin_token"`
	Email    string `json:"email" example:"teacher@yesh.mn"`
	Username string `json:"username" example:"newteacher123"`
	FullName string `json:"fullName" example:"Б. Болд"`
	Password string `json:"password" example:"P@ssw0rd!"`
}

// UpdateProfileRequest : тело запроса на обновление профиля
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		User *model.User `json:"user"`
	} `json:"response"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		RefreshTokenUUID string `json:"refresh_token_uuid"`
		Revoked          bool   `json:"revoked" example:"true"`
	} `json:"response"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Text string `json:"text" example:"for example: invalid login or password"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
