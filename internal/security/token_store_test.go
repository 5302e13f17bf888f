package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/security"
)

// ===== HELPERS =====

// signedToken выпускает JWT с заданным exp; подпись в этих тестах не проверяется
func signedToken(t *testing.T, expireAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expireAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// tokenWithoutExp : структурно корректный JWT без claim exp
func tokenWithoutExp(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestStore() (*security.TokenStore, *security.MemoryCookieJar) {
	jar := security.NewMemoryCookieJar()
	return security.NewTokenStore(jar), jar
}

// ===== TESTS =====

// 1. Живой access токен записывается, max-age куки вычисляется из exp
func TestSetAccessToken_Valid(t *testing.T) {
	store, jar := newTestStore()
	token := signedToken(t, time.Now().Add(time.Hour))

	err := store.SetAccessToken(token)

	assert.NoError(t, err)
	got, ok := store.GetAccessToken()
	assert.True(t, ok)
	assert.Equal(t, token, got)

	maxAge, ok := jar.MaxAge(security.AccessTokenCookie)
	require.True(t, ok)
	assert.InDelta(t, 3600, maxAge, 5)
}

// 2. Просроченный access токен — ошибка, кука не записывается
func TestSetAccessToken_Expired(t *testing.T) {
	store, _ := newTestStore()
	token := signedToken(t, time.Now().Add(-time.Hour))

	err := store.SetAccessToken(token)

	assert.ErrorIs(t, err, security.ErrExpiredOrInvalidToken)
	_, ok := store.GetAccessToken()
	assert.False(t, ok)
}

// 3. Токен без exp — ошибка
func TestSetAccessToken_NoExpClaim(t *testing.T) {
	store, _ := newTestStore()

	err := store.SetAccessToken(tokenWithoutExp(t))

	assert.ErrorIs(t, err, security.ErrExpiredOrInvalidToken)
	_, ok := store.GetAccessToken()
	assert.False(t, ok)
}

// 4. Мусор вместо токена — ошибка
func TestSetAccessToken_Malformed(t *testing.T) {
	store, _ := newTestStore()

	err := store.SetAccessToken("не-jwt-вовсе")

	assert.ErrorIs(t, err, security.ErrExpiredOrInvalidToken)
}

// 5. Refresh токен с истёкшим сроком не является ошибкой: кука удаляется сразу
func TestSetRefreshToken_ExpiredClampedToZero(t *testing.T) {
	store, _ := newTestStore()

	store.SetRefreshToken(model.RefreshTokenRecord{
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	})

	_, ok := store.GetRefreshToken()
	assert.False(t, ok)
}

// 6. Живой refresh токен записывается, max-age куки вычисляется из expiresAt
func TestSetRefreshToken_Valid(t *testing.T) {
	store, jar := newTestStore()

	store.SetRefreshToken(model.RefreshTokenRecord{
		Token:     "fresh",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	})

	got, ok := store.GetRefreshToken()
	assert.True(t, ok)
	assert.Equal(t, "fresh", got)

	maxAge, ok := jar.MaxAge(security.RefreshTokenCookie)
	require.True(t, ok)
	assert.InDelta(t, 30*24*60*60, maxAge, 5)
}

// 7. ClearTokens удаляет обе куки и идемпотентна
func TestClearTokens_Idempotent(t *testing.T) {
	store, _ := newTestStore()
	require.NoError(t, store.SetAccessToken(signedToken(t, time.Now().Add(time.Hour))))
	store.SetRefreshToken(model.RefreshTokenRecord{Token: "r", ExpiresAt: time.Now().Add(time.Hour)})

	store.ClearTokens()
	store.ClearTokens()

	assert.False(t, store.IsAuthenticated())
	_, ok := store.GetRefreshToken()
	assert.False(t, ok)
}

// 8. IsAuthenticated смотрит только на наличие куки:
// просроченный токен в куке тоже считается "аутентифицирован"
func TestIsAuthenticated_PresenceOnly(t *testing.T) {
	store, jar := newTestStore()
	assert.False(t, store.IsAuthenticated())

	// кладём просроченный токен напрямую в jar, минуя SetAccessToken
	jar.Set(security.AccessTokenCookie, signedToken(t, time.Now().Add(-time.Hour)), 600, true)

	assert.True(t, store.IsAuthenticated())
}

// 9. IsExpired: любой сбой интерпретации трактуется как истечение
func TestIsExpired_FailClosed(t *testing.T) {
	// 9.1 куки нет
	store, jar := newTestStore()
	assert.True(t, store.IsExpired())

	// 9.2 мусор в куке
	jar.Set(security.AccessTokenCookie, "мусор", 600, true)
	assert.True(t, store.IsExpired())

	// 9.3 токен без exp
	jar.Set(security.AccessTokenCookie, tokenWithoutExp(t), 600, true)
	assert.True(t, store.IsExpired())

	// 9.4 просроченный токен
	jar.Set(security.AccessTokenCookie, signedToken(t, time.Now().Add(-time.Minute)), 600, true)
	assert.True(t, store.IsExpired())

	// 9.5 живой токен
	jar.Set(security.AccessTokenCookie, signedToken(t, time.Now().Add(time.Hour)), 600, true)
	assert.False(t, store.IsExpired())
}

// 10. userData: запись и чтение снапшота профиля, кука живёт 7 дней
func TestUserData_RoundTrip(t *testing.T) {
	store, jar := newTestStore()
	data := &model.UserData{
		FullName: "Болд Эрдэнэ",
		Email:    "bold@example.mn",
		Username: "bolderdene",
		Avatar:   "https://cdn.example.mn/a.png",
	}

	require.NoError(t, store.SetUserData(data))

	got := store.GetUserData()
	require.NotNil(t, got)
	assert.Equal(t, data, got)

	maxAge, ok := jar.MaxAge(security.UserDataCookie)
	require.True(t, ok)
	assert.Equal(t, 7*24*60*60, maxAge)
}

// 11. GetUserData глотает любые сбои: кэш отображения не стоит ошибки
func TestGetUserData_SwallowsErrors(t *testing.T) {
	store, jar := newTestStore()

	// куки нет
	assert.Nil(t, store.GetUserData())

	// некорректный JSON
	jar.Set(security.UserDataCookie, "%7Bне-json", 600, false)
	assert.Nil(t, store.GetUserData())

	// некорректный percent-encoding
	jar.Set(security.UserDataCookie, "%zz", 600, false)
	assert.Nil(t, store.GetUserData())
}
