package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
	"exam-dashboard-server/internal/util"
)

// Response : нормализованный исход HTTP вызова.
// Успех — {Result: true, Data}, неуспех — {Result: false, Message}.
// Транспортные ошибки (DNS, connection refused) сюда не попадают:
// они возвращаются как error, чтобы вызывающий мог отличить
// "сервер сказал нет" от "до сервера не дошли".
type Response struct {
	Result  bool   `json:"result"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client выполняет HTTP вызовы к бэкенду, подставляя access токен
// в заголовок X-Access-Token, и один раз восстанавливается после
// истечения токена: refresh плюс единственный повтор запроса.
type Client struct {
	baseURL    string
	httpClient ports.Doer
	refresher  ports.TokenRefresher
}

func NewClient(baseURL string, httpClient ports.Doer, refresher ports.TokenRefresher) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		refresher:  refresher,
	}
}

// Get : авторизованный GET
func (c *Client) Get(ctx context.Context, store ports.TokenStore, path string) (*Response, error) {
	return c.Do(ctx, store, http.MethodGet, path, nil, true)
}

// Post : авторизованный POST c JSON телом
func (c *Client) Post(ctx context.Context, store ports.TokenStore, path string, body any) (*Response, error) {
	return c.Do(ctx, store, http.MethodPost, path, body, true)
}

// Do выполняет один логический запрос.
//
// При статусе 400–499 сначала проверяется истечение токена: если токен
// формально ещё жив, ошибка не про авторизацию, и refresh не выполняется.
// Если токен истёк и refresh дал новый токен, исходный запрос повторяется
// ровно один раз; результат повтора финален независимо от исхода.
func (c *Client) Do(ctx context.Context, store ports.TokenStore, method string, path string, body any, authenticated bool) (*Response, error) {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, util.LogError("[ApiClient] ошибка сериализации тела запроса", err)
		}
		payload = raw
	}

	var token string
	if authenticated {
		token, _ = store.GetAccessToken()
	}

	response, err := c.send(ctx, method, path, payload, token, authenticated)
	if err != nil {
		return nil, err
	}

	// восстановление после истечения токена имеет смысл
	// только для авторизованных вызовов
	if authenticated && response.StatusCode >= 400 && response.StatusCode <= 499 {
		originalBody, readErr := readBody(response)
		if readErr != nil {
			return nil, readErr
		}

		if !store.IsExpired() {
			// токен ещё жив: 4xx по другой причине, отдаём как есть
			return normalizeFailure(originalBody), nil
		}

		newToken, _ := c.refresher.Refresh(ctx, store)
		if newToken == "" {
			return normalizeFailure(originalBody), nil
		}

		retried, err := c.send(ctx, method, path, payload, newToken, authenticated)
		if err != nil {
			return nil, err
		}
		return c.finalize(retried)
	}

	return c.finalize(response)
}

func (c *Client) send(ctx context.Context, method string, path string, payload []byte, token string, authenticated bool) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, util.LogError("[ApiClient] ошибка создания запроса", err)
	}

	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authenticated && token != "" {
		request.Header.Set(security.AuthHeader, token)
	}

	return c.httpClient.Do(request)
}

func (c *Client) finalize(response *http.Response) (*Response, error) {
	body, err := readBody(response)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= 200 && response.StatusCode <= 299 {
		return normalizeSuccess(response.Header.Get("Content-Type"), body), nil
	}

	return normalizeFailure(body), nil
}

func readBody(response *http.Response) ([]byte, error) {
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, util.LogError("[ApiClient] ошибка чтения тела ответа", err)
	}
	return body, nil
}

func normalizeSuccess(contentType string, body []byte) *Response {
	if strings.Contains(contentType, "application/json") {
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return &Response{Result: true, Data: data}
		}
	}

	return &Response{Result: true, Data: string(body)}
}

func normalizeFailure(body []byte) *Response {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return &Response{Result: false, Message: parsed.Message}
	}

	return &Response{Result: false, Message: string(body)}
}
