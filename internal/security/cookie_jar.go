package security

import (
	"net/http"
)

// CookieJar : инжектируемое key-value хранилище куки.
// В проде это куки HTTP запроса/ответа, в тестах — in-memory заглушка.
type CookieJar interface {
	Get(name string) (string, bool)
	Set(name string, value string, maxAge int, httpOnly bool)
	Delete(name string)
}

// RequestCookieJar реализует CookieJar поверх пары (запрос, ответ).
// Куки, выставленные в рамках текущего запроса, видны последующим
// чтениям через overrides: middleware пишет новую пару токенов,
// а обработчик дальше по цепочке должен её увидеть.
type RequestCookieJar struct {
	request   *http.Request
	writer    http.ResponseWriter
	secure    bool
	overrides map[string]*string
}

func NewRequestCookieJar(w http.ResponseWriter, r *http.Request, secure bool) *RequestCookieJar {
	return &RequestCookieJar{
		request:   r,
		writer:    w,
		secure:    secure,
		overrides: make(map[string]*string),
	}
}

func (jar *RequestCookieJar) Get(name string) (string, bool) {
	if value, ok := jar.overrides[name]; ok {
		if value == nil {
			return "", false
		}
		return *value, true
	}

	cookie, err := jar.request.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (jar *RequestCookieJar) Set(name string, value string, maxAge int, httpOnly bool) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   jar.secure,
		SameSite: http.SameSiteLaxMode,
	}

	// maxAge 0 означает "уже истёк": кука удаляется немедленно
	if maxAge <= 0 {
		cookie.MaxAge = -1
		http.SetCookie(jar.writer, cookie)
		jar.overrides[name] = nil
		return
	}

	http.SetCookie(jar.writer, cookie)
	jar.overrides[name] = &value
}

func (jar *RequestCookieJar) Delete(name string) {
	http.SetCookie(jar.writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   jar.secure,
		SameSite: http.SameSiteLaxMode,
	})
	jar.overrides[name] = nil
}

// MemoryCookieJar : in-memory реализация для тестов.
// Запоминает max-age каждой куки, чтобы тесты могли проверить
// привязку времени жизни куки к времени жизни токена.
type MemoryCookieJar struct {
	values  map[string]string
	maxAges map[string]int
}

func NewMemoryCookieJar() *MemoryCookieJar {
	return &MemoryCookieJar{
		values:  make(map[string]string),
		maxAges: make(map[string]int),
	}
}

func (jar *MemoryCookieJar) Get(name string) (string, bool) {
	value, ok := jar.values[name]
	return value, ok
}

func (jar *MemoryCookieJar) Set(name string, value string, maxAge int, httpOnly bool) {
	if maxAge <= 0 {
		jar.Delete(name)
		return
	}
	jar.values[name] = value
	jar.maxAges[name] = maxAge
}

func (jar *MemoryCookieJar) Delete(name string) {
	delete(jar.values, name)
	delete(jar.maxAges, name)
}

// MaxAge возвращает max-age, с которым кука была записана
func (jar *MemoryCookieJar) MaxAge(name string) (int, bool) {
	maxAge, ok := jar.maxAges[name]
	return maxAge, ok
}
