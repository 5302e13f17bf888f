package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"exam-dashboard-server/config"
	"exam-dashboard-server/internal/model/requestresponse"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/util"
)

const refreshPath = "/api/v2/auth/refresh-token"

// RefreshClient обменивает сохранённый refresh токен на новую пару у identity provider.
// Неуспешный HTTP статус любого вида сводится к "нового токена нет":
// 401 и 500 для вызывающего неразличимы.
type RefreshClient struct {
	baseURL    string
	httpClient ports.Doer
}

func NewRefreshClient(cfg *config.IdentityConfig) *RefreshClient {
	return &RefreshClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{},
	}
}

// NewRefreshClientWithDoer : для подмены HTTP клиента в тестах
func NewRefreshClientWithDoer(baseURL string, doer ports.Doer) *RefreshClient {
	return &RefreshClient{baseURL: baseURL, httpClient: doer}
}

// Refresh читает сохранённый refresh токен и выполняет один POST на refresh endpoint.
// Если токен не сохранён, сетевой вызов не выполняется вовсе.
// При успехе перезаписывает обе токен-куки за один вызов и возвращает новый access токен.
// При неуспехе кук не пишет.
func (c *RefreshClient) Refresh(ctx context.Context, store ports.TokenStore) (string, error) {
	refreshToken, ok := store.GetRefreshToken()
	if !ok {
		return "", nil
	}

	body, err := json.Marshal(requestresponse.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", util.LogError("[RefreshClient] ошибка сериализации запроса", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(body))
	if err != nil {
		return "", util.LogError("[RefreshClient] ошибка создания запроса", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", util.LogError("[RefreshClient] ошибка вызова refresh endpoint", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", nil
	}

	var payload requestresponse.AuthUserResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return "", util.LogError("[RefreshClient] ошибка разбора ответа", err)
	}

	if err := store.SetAccessToken(payload.Token); err != nil {
		return "", util.LogError("[RefreshClient] identity provider вернул просроченный токен", err)
	}
	store.SetRefreshToken(payload.RefreshToken)

	return payload.Token, nil
}
