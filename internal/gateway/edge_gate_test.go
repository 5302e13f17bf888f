package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exam-dashboard-server/internal/gateway"
	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
)

// ===== MOCKS =====

// gateRefresher имитирует обмен refresh токена: при успехе пишет
// обе токен-куки в стор, как это делает настоящий клиент
type gateRefresher struct {
	accessToken string
	err         error
	calls       int
}

func (g *gateRefresher) Refresh(ctx context.Context, store ports.TokenStore) (string, error) {
	g.calls++
	if g.err != nil || g.accessToken == "" {
		return "", g.err
	}

	if err := store.SetAccessToken(g.accessToken); err != nil {
		return "", err
	}
	store.SetRefreshToken(model.RefreshTokenRecord{
		Token:     "rotated-refresh",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	})
	return g.accessToken, nil
}

// ===== HELPERS =====

func gateToken(t *testing.T, expireAt time.Time) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expireAt),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// serveThroughGate прогоняет запрос через EdgeGate и отмечает, дошёл ли он до страницы
func serveThroughGate(refresher ports.TokenRefresher, request *http.Request) (*httptest.ResponseRecorder, *bool) {
	reached := false
	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	gateway.EdgeGate(refresher, false)(page).ServeHTTP(recorder, request)
	return recorder, &reached
}

func responseCookie(recorder *httptest.ResponseRecorder, name string) (*http.Cookie, bool) {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name && cookie.MaxAge > 0 {
			return cookie, true
		}
	}
	return nil, false
}

// ===== TESTS =====

// 1. Нет ни одной куки: редирект на /login без сетевых вызовов
func TestEdgeGate_NoTokens_RedirectsToLogin(t *testing.T) {
	refresher := &gateRefresher{accessToken: "unused"}
	request := httptest.NewRequest(http.MethodGet, "/dashboard/board", nil)

	recorder, reached := serveThroughGate(refresher, request)

	assert.False(t, *reached)
	assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
	assert.Equal(t, 0, refresher.calls)
}

// 2. Кука access токена есть: пропуск без проверки истечения
// (даже просроченный токен открывает страницу)
func TestEdgeGate_AccessCookiePresent_PassesWithoutRefresh(t *testing.T) {
	refresher := &gateRefresher{accessToken: "unused"}
	request := httptest.NewRequest(http.MethodGet, "/dashboard/board", nil)
	request.AddCookie(&http.Cookie{
		Name:  security.AccessTokenCookie,
		Value: gateToken(t, time.Now().Add(-time.Hour)),
	})

	_, reached := serveThroughGate(refresher, request)

	assert.True(t, *reached)
	assert.Equal(t, 0, refresher.calls)
}

// 3. Только refresh токен: один синхронный refresh, обе новые куки
// уезжают с ответом с max-age по времени жизни токенов,
// навигация продолжается
func TestEdgeGate_RefreshTokenOnly_RefreshesAndPasses(t *testing.T) {
	newAccess := gateToken(t, time.Now().Add(15*time.Minute))
	refresher := &gateRefresher{accessToken: newAccess}

	request := httptest.NewRequest(http.MethodGet, "/dashboard/board", nil)
	request.AddCookie(&http.Cookie{Name: security.RefreshTokenCookie, Value: "stored-refresh"})

	recorder, reached := serveThroughGate(refresher, request)

	assert.True(t, *reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, refresher.calls)

	accessCookie, ok := responseCookie(recorder, security.AccessTokenCookie)
	require.True(t, ok)
	assert.Equal(t, newAccess, accessCookie.Value)
	assert.InDelta(t, 15*60, accessCookie.MaxAge, 5)

	refreshCookie, ok := responseCookie(recorder, security.RefreshTokenCookie)
	require.True(t, ok)
	assert.Equal(t, "rotated-refresh", refreshCookie.Value)
	assert.InDelta(t, 30*24*60*60, refreshCookie.MaxAge, 5)
}

// 4. Refresh не удался: редирект на /login
func TestEdgeGate_RefreshFails_RedirectsToLogin(t *testing.T) {
	refresher := &gateRefresher{err: errors.New("identity provider недоступен")}
	request := httptest.NewRequest(http.MethodGet, "/dashboard/board", nil)
	request.AddCookie(&http.Cookie{Name: security.RefreshTokenCookie, Value: "stored-refresh"})

	recorder, reached := serveThroughGate(refresher, request)

	assert.False(t, *reached)
	assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
	assert.Equal(t, 1, refresher.calls)
}

// 5. Refresh вернул пустой токен без ошибки: тоже редирект
func TestEdgeGate_RefreshReturnsEmpty_RedirectsToLogin(t *testing.T) {
	refresher := &gateRefresher{accessToken: ""}
	request := httptest.NewRequest(http.MethodGet, "/dashboard/board", nil)
	request.AddCookie(&http.Cookie{Name: security.RefreshTokenCookie, Value: "stored-refresh"})

	recorder, _ := serveThroughGate(refresher, request)

	assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
	assert.Equal(t, 1, refresher.calls)
}

// 6. Публичные страницы и статика проходят без проверок
func TestEdgeGate_PublicAndExemptPaths_Pass(t *testing.T) {
	for _, path := range []string{
		"/login",
		"/register",
		"/forgot-password",
		"/static/app.js",
		"/images/logo.jpg",
		"/favicon.ico",
		"/banner.png",
	} {
		refresher := &gateRefresher{}
		request := httptest.NewRequest(http.MethodGet, path, nil)

		recorder, reached := serveThroughGate(refresher, request)

		assert.True(t, *reached, "путь %s должен проходить без проверок", path)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, 0, refresher.calls)
	}
}

// 7. EdgeGate кладёт стор токенов в контекст запроса
func TestEdgeGate_TokenStoreInContext(t *testing.T) {
	var store *security.TokenStore
	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, _ = gateway.TokenStoreFromContext(r.Context())
	})

	request := httptest.NewRequest(http.MethodGet, "/dashboard/board", nil)
	request.AddCookie(&http.Cookie{
		Name:  security.AccessTokenCookie,
		Value: gateToken(t, time.Now().Add(time.Hour)),
	})

	recorder := httptest.NewRecorder()
	gateway.EdgeGate(&gateRefresher{}, false)(page).ServeHTTP(recorder, request)

	require.NotNil(t, store)
	assert.True(t, store.IsAuthenticated())
}
