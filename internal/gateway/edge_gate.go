package gateway

import (
	"context"
	"log"
	"net/http"
	"strings"

	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
)

type contextKey string

const storeContextKey contextKey = "token_store"

// публичные страницы аутентификации проходят без проверок
var publicPaths = map[string]bool{
	"/login":           true,
	"/register":        true,
	"/forgot-password": true,
}

// isExemptPath : статика, вывод оптимизатора изображений, favicon и png
// не проходят через gate
func isExemptPath(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/images/") ||
		path == "/favicon.ico" ||
		strings.HasSuffix(path, ".png")
}

// EdgeGate решает до обслуживания защищённой страницы, пропустить ли
// посетителя или отправить на /login. Работает только по кукам,
// независимо от клиентских вызовов API:
//   - кука access токена есть — пропуск без проверки истечения
//     (истечение — забота обёртки запросов при следующем вызове API);
//   - access токена нет, но есть refresh токен — синхронный refresh,
//     при успехе новая пара кук уезжает с ответом и навигация продолжается;
//   - нет ни того, ни другого, или refresh не удался — редирект на /login.
func EdgeGate(refresher ports.TokenRefresher, secureCookies bool) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			path := request.URL.Path
			if isExemptPath(path) || publicPaths[path] {
				store := security.NewTokenStore(security.NewRequestCookieJar(writer, request, secureCookies))
				next.ServeHTTP(writer, withTokenStore(request, store))
				return
			}

			store := security.NewTokenStore(security.NewRequestCookieJar(writer, request, secureCookies))
			gated := withTokenStore(request, store)

			if store.IsAuthenticated() {
				next.ServeHTTP(writer, gated)
				return
			}

			if _, ok := store.GetRefreshToken(); ok {
				token, err := refresher.Refresh(request.Context(), store)
				if err != nil || token == "" {
					if err != nil {
						log.Printf("[EdgeGate] ошибка обновления токенов: %v", err)
					}
					redirectToLogin(writer, request)
					return
				}
				next.ServeHTTP(writer, gated)
				return
			}

			redirectToLogin(writer, request)
		})
	}
}

func redirectToLogin(writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, "/login", http.StatusTemporaryRedirect)
}

func withTokenStore(request *http.Request, store *security.TokenStore) *http.Request {
	ctx := context.WithValue(request.Context(), storeContextKey, store)
	return request.WithContext(ctx)
}

// TokenStoreFromContext достаёт стор текущего запроса, положенный EdgeGate
func TokenStoreFromContext(ctx context.Context) (*security.TokenStore, bool) {
	store, ok := ctx.Value(storeContextKey).(*security.TokenStore)
	return store, ok && store != nil
}
