package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exam-dashboard-server/internal/apiclient"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
)

// ===== MOCKS =====

// stubRefresher считает вызовы и отдаёт заранее заданный токен
type stubRefresher struct {
	token string
	err   error
	calls int
}

func (s *stubRefresher) Refresh(ctx context.Context, store ports.TokenStore) (string, error) {
	s.calls++
	return s.token, s.err
}

// ===== HELPERS =====

func issueToken(t *testing.T, expireAt time.Time) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expireAt),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// liveTokenStore : стор с непросроченным access токеном
func liveTokenStore(t *testing.T) *security.TokenStore {
	t.Helper()

	store := security.NewTokenStore(security.NewMemoryCookieJar())
	require.NoError(t, store.SetAccessToken(issueToken(t, time.Now().Add(time.Hour))))
	return store
}

// expiredTokenStore : стор с просроченным access токеном
// (кладём напрямую в jar, SetAccessToken такой не примет)
func expiredTokenStore(t *testing.T) *security.TokenStore {
	t.Helper()

	jar := security.NewMemoryCookieJar()
	jar.Set(security.AccessTokenCookie, issueToken(t, time.Now().Add(-time.Minute)), 600, true)
	return security.NewTokenStore(jar)
}

// ===== TESTS =====

// 1. Успешный JSON ответ нормализуется в {result: true, data}
func TestDo_SuccessJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get(security.AuthHeader))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"uuid": "a1"})
	}))
	defer server.Close()

	refresher := &stubRefresher{}
	client := apiclient.NewClient(server.URL, server.Client(), refresher)

	response, err := client.Get(context.Background(), liveTokenStore(t), "/api/assignments")

	require.NoError(t, err)
	assert.True(t, response.Result)
	data, ok := response.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a1", data["uuid"])
	assert.Equal(t, 0, refresher.calls)
}

// 2. Не-JSON успех отдаётся строкой
func TestDo_SuccessPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := apiclient.NewClient(server.URL, server.Client(), &stubRefresher{})

	response, err := client.Get(context.Background(), liveTokenStore(t), "/ping")

	require.NoError(t, err)
	assert.True(t, response.Result)
	assert.Equal(t, "ok", response.Data)
}

// 3. 4xx при живом токене: refresh не выполняется, ошибка отдаётся как есть
func TestDo_ClientErrorWithLiveToken_NoRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"доступ запрещён"}`))
	}))
	defer server.Close()

	refresher := &stubRefresher{token: "should-not-be-used"}
	client := apiclient.NewClient(server.URL, server.Client(), refresher)

	response, err := client.Get(context.Background(), liveTokenStore(t), "/api/assignments")

	require.NoError(t, err)
	assert.False(t, response.Result)
	assert.Equal(t, "доступ запрещён", response.Message)
	assert.Equal(t, 0, refresher.calls)
}

// 4. 4xx при истёкшем токене: один refresh и ровно один повтор запроса
func TestDo_ExpiredToken_SingleRetry(t *testing.T) {
	targetCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetCalls++
		if r.Header.Get(security.AuthHeader) == "new-access" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"status": "обновлено"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"токен истёк"}`))
	}))
	defer server.Close()

	refresher := &stubRefresher{token: "new-access"}
	client := apiclient.NewClient(server.URL, server.Client(), refresher)

	response, err := client.Post(context.Background(), expiredTokenStore(t), "/api/assignments", map[string]string{"question": "2+2"})

	require.NoError(t, err)
	assert.True(t, response.Result)
	assert.Equal(t, 2, targetCalls)
	assert.Equal(t, 1, refresher.calls)
}

// 5. Повтор тоже неуспешен: результат повтора финален, третьего вызова нет
func TestDo_RetryFailureIsFinal(t *testing.T) {
	targetCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetCalls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"всё ещё нет"}`))
	}))
	defer server.Close()

	refresher := &stubRefresher{token: "new-access"}
	client := apiclient.NewClient(server.URL, server.Client(), refresher)

	response, err := client.Get(context.Background(), expiredTokenStore(t), "/api/profile/me")

	require.NoError(t, err)
	assert.False(t, response.Result)
	assert.Equal(t, "всё ещё нет", response.Message)
	assert.Equal(t, 2, targetCalls)
	assert.Equal(t, 1, refresher.calls)
}

// 6. Refresh не дал токена: отдаётся исходная ошибка, повтора нет.
// Причина неуспеха refresh для вызывающего неразличима.
func TestDo_RefreshFailed_OriginalFailureReturned(t *testing.T) {
	targetCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetCalls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"исходная ошибка"}`))
	}))
	defer server.Close()

	refresher := &stubRefresher{token: ""}
	client := apiclient.NewClient(server.URL, server.Client(), refresher)

	response, err := client.Get(context.Background(), expiredTokenStore(t), "/api/profile/me")

	require.NoError(t, err)
	assert.False(t, response.Result)
	assert.Equal(t, "исходная ошибка", response.Message)
	assert.Equal(t, 1, targetCalls)
	assert.Equal(t, 1, refresher.calls)
}

// 7. 5xx нормализуется в неуспех без refresh
func TestDo_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("внутренняя ошибка"))
	}))
	defer server.Close()

	refresher := &stubRefresher{token: "unused"}
	client := apiclient.NewClient(server.URL, server.Client(), refresher)

	response, err := client.Get(context.Background(), expiredTokenStore(t), "/api/assignments")

	require.NoError(t, err)
	assert.False(t, response.Result)
	assert.Equal(t, "внутренняя ошибка", response.Message)
	assert.Equal(t, 0, refresher.calls)
}

// 8. Транспортная ошибка возвращается как error, а не как {result: false}
func TestDo_TransportErrorIsThrown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := apiclient.NewClient(server.URL, &http.Client{}, &stubRefresher{})

	response, err := client.Get(context.Background(), liveTokenStore(t), "/api/assignments")

	assert.Error(t, err)
	assert.Nil(t, response)
}

// 9. Неавторизованный запрос уходит без заголовка токена
func TestDo_Unauthenticated_NoAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(security.AuthHeader))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := apiclient.NewClient(server.URL, server.Client(), &stubRefresher{})

	response, err := client.Do(context.Background(), liveTokenStore(t), http.MethodGet, "/public", nil, false)

	require.NoError(t, err)
	assert.True(t, response.Result)
}

// 10. 4xx на неавторизованном запросе не запускает refresh и повтор,
// даже если в сторе лежит истёкший токен
func TestDo_Unauthenticated_ClientErrorNoRecovery(t *testing.T) {
	targetCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetCalls++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"не найдено"}`))
	}))
	defer server.Close()

	refresher := &stubRefresher{token: "should-not-be-used"}
	client := apiclient.NewClient(server.URL, server.Client(), refresher)

	response, err := client.Do(context.Background(), expiredTokenStore(t), http.MethodGet, "/public", nil, false)

	require.NoError(t, err)
	assert.False(t, response.Result)
	assert.Equal(t, "не найдено", response.Message)
	assert.Equal(t, 1, targetCalls)
	assert.Equal(t, 0, refresher.calls)
}
