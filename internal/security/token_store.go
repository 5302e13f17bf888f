package security

import (
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"exam-dashboard-server/internal/model"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	UserDataCookie     = "userData"

	userDataMaxAge = 7 * 24 * 60 * 60
)

// AuthHeader : нестандартный заголовок, в котором бэкенд ожидает access токен
const AuthHeader = "X-Access-Token"

var ErrExpiredOrInvalidToken = errors.New("токен просрочен или некорректен")

// TokenStore : доступ к кукам accessToken, refreshToken и userData
type TokenStore struct {
	jar CookieJar
}

func NewTokenStore(jar CookieJar) *TokenStore {
	return &TokenStore{jar: jar}
}

// SetAccessToken сохраняет access токен с max-age, вычисленным из claim exp.
// Возвращает ErrExpiredOrInvalidToken, если exp отсутствует или уже в прошлом:
// такая кука не записывается вовсе.
func (s *TokenStore) SetAccessToken(token string) error {
	expireAt, err := tokenExpiry(token)
	if err != nil {
		return ErrExpiredOrInvalidToken
	}

	maxAge := int(expireAt.Unix() - time.Now().Unix())
	if maxAge <= 0 {
		return ErrExpiredOrInvalidToken
	}

	s.jar.Set(AccessTokenCookie, token, maxAge, true)
	return nil
}

// SetRefreshToken сохраняет refresh токен с max-age из record.ExpiresAt.
// Уже истёкший токен не является ошибкой: max-age прижимается к нулю,
// и кука удаляется немедленно.
func (s *TokenStore) SetRefreshToken(record model.RefreshTokenRecord) {
	maxAge := int(record.ExpiresAt.Unix() - time.Now().Unix())
	if maxAge < 0 {
		maxAge = 0
	}

	s.jar.Set(RefreshTokenCookie, record.Token, maxAge, true)
}

// ClearTokens удаляет обе токен-куки. Идемпотентна.
func (s *TokenStore) ClearTokens() {
	s.jar.Delete(AccessTokenCookie)
	s.jar.Delete(RefreshTokenCookie)
}

func (s *TokenStore) GetAccessToken() (string, bool) {
	return s.jar.Get(AccessTokenCookie)
}

func (s *TokenStore) GetRefreshToken() (string, bool) {
	return s.jar.Get(RefreshTokenCookie)
}

// IsAuthenticated проверяет только наличие куки access токена,
// без проверки истечения
func (s *TokenStore) IsAuthenticated() bool {
	_, ok := s.jar.Get(AccessTokenCookie)
	return ok
}

// IsExpired интерпретирует exp сохранённого access токена без проверки подписи.
// Любой сбой (токен отсутствует, exp нет, токен не декодируется) считается
// истечением: политика fail-closed в пользу повторной аутентификации.
func (s *TokenStore) IsExpired() bool {
	token, ok := s.jar.Get(AccessTokenCookie)
	if !ok {
		return true
	}

	expireAt, err := tokenExpiry(token)
	if err != nil {
		return true
	}

	return expireAt.Unix() < time.Now().Unix()
}

func (s *TokenStore) SetUserData(data *model.UserData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.jar.Set(UserDataCookie, url.QueryEscape(string(raw)), userDataMaxAge, false)
	return nil
}

// GetUserData возвращает nil и при отсутствии куки, и при некорректном JSON:
// кэш отображения не стоит ошибки
func (s *TokenStore) GetUserData() *model.UserData {
	value, ok := s.jar.Get(UserDataCookie)
	if !ok {
		return nil
	}

	raw, err := url.QueryUnescape(value)
	if err != nil {
		return nil
	}

	var data model.UserData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}
	return &data
}

// tokenExpiry декодирует payload токена без проверки подписи и возвращает exp.
// Токен здесь — транспортное bearer-значение, провалидированное выше по цепочке.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	expireAt, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if expireAt == nil {
		return time.Time{}, errors.New("в токене отсутствует claim exp")
	}

	return expireAt.Time, nil
}
