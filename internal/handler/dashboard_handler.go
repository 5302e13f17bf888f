package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"

	"exam-dashboard-server/internal/apiclient"
	"exam-dashboard-server/internal/gateway"
	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/model/requestresponse"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/util"
)

// DashboardHandler : обработчики шлюза учительской панели.
// Все авторизованные вызовы к бэкендам идут через apiclient.Client,
// который один раз восстанавливается после истечения access токена.
type DashboardHandler struct {
	identityBase      string
	httpClient        ports.Doer
	identityClient    *apiclient.Client
	assignmentsClient *apiclient.Client
}

func NewDashboardHandler(
	identityBase string,
	httpClient ports.Doer,
	identityClient *apiclient.Client,
	assignmentsClient *apiclient.Client,
) *DashboardHandler {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &DashboardHandler{
		identityBase:      identityBase,
		httpClient:        httpClient,
		identityClient:    identityClient,
		assignmentsClient: assignmentsClient,
	}
}

// Login аутентифицирует учителя у identity provider и выставляет три куки:
// accessToken, refreshToken и userData
func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, ok := gateway.TokenStoreFromContext(ctx)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, h.identityBase+"/api/v2/auth/login", bytes.NewReader(payload))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := h.httpClient.Do(request)
	if err != nil {
		util.LogError("[Dashboard] identity provider недоступен", err)
		w.Header().Set("Content-Type", "application/json")
		sendErrorResponse(w, 502, "identity provider недоступен")
		return
	}
	defer response.Body.Close()

	w.Header().Set("Content-Type", "application/json")

	if response.StatusCode != http.StatusOK {
		var failure requestresponse.ErrorResponse
		if err := json.NewDecoder(response.Body).Decode(&failure); err == nil && failure.Error.Text != "" {
			sendErrorResponse(w, response.StatusCode, failure.Error.Text)
			return
		}
		sendErrorResponse(w, response.StatusCode, "не удалось войти")
		return
	}

	var user requestresponse.AuthUserResponse
	if err := json.NewDecoder(response.Body).Decode(&user); err != nil {
		sendErrorResponse(w, 502, "некорректный ответ identity provider")
		return
	}

	// куки пишутся до тела ответа
	if err := store.SetAccessToken(user.Token); err != nil {
		sendErrorResponse(w, 502, "identity provider вернул просроченный токен")
		return
	}
	store.SetRefreshToken(user.RefreshToken)
	if err := store.SetUserData(userDataFromAuth(&user)); err != nil {
		log.Printf("[Dashboard] не удалось записать userData: %v", err)
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(user)
}

// Logout инвалидирует сессию у identity provider и удаляет токен-куки.
// Куки чистятся в любом случае, даже если бэкенд ответил ошибкой.
func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	store, ok := gateway.TokenStoreFromContext(ctx)
	if !ok {
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	if _, err := h.identityClient.Do(ctx, store, http.MethodDelete, "/api/v2/auth/logout", nil, true); err != nil {
		log.Printf("[Dashboard] ошибка завершения сессии: %v", err)
	}

	store.ClearTokens()

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(apiclient.Response{Result: true})
}

// Profile возвращает профиль текущего пользователя из identity provider
func (h *DashboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx *proxyContext) (*apiclient.Response, error) {
		return h.identityClient.Get(ctx.ctx, ctx.store, "/api/v2/auth/me")
	})
}

// UpdateProfile обновляет профиль и перезаписывает куку userData
// по обновлённым данным
func (h *DashboardHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	store, ok := gateway.TokenStoreFromContext(ctx)
	if !ok {
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	var req requestresponse.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	result, err := h.identityClient.Do(ctx, store, http.MethodPut, "/api/v2/users/me", req, true)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 502, "identity provider недоступен")
		return
	}

	if result.Result {
		if user := currentUserFromData(result.Data); user != nil {
			if err := store.SetUserData(user); err != nil {
				log.Printf("[Dashboard] не удалось обновить userData: %v", err)
			}
		}
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(result)
}

// ListAssignments проксирует список заданий из сервиса заданий.
// Бэкенд отдаёт либо конверт {"data":{"list","total"}}, либо голый массив;
// наружу всегда уходит конверт.
func (h *DashboardHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	query := ""
	if r.URL.RawQuery != "" {
		query = "?" + r.URL.RawQuery
	}
	h.proxy(w, r, func(ctx *proxyContext) (*apiclient.Response, error) {
		result, err := h.assignmentsClient.Get(ctx.ctx, ctx.store, "/api/assignments"+query)
		if err != nil || !result.Result {
			return result, err
		}

		if list := assignmentListFromData(result.Data); list != nil {
			normalized := requestresponse.AssignmentListResponse{}
			normalized.Data.List = list.List
			normalized.Data.Total = list.Total
			result.Data = normalized
		}
		return result, nil
	})
}

// assignmentListFromData приводит обе формы ответа бэкенда к одному списку
func assignmentListFromData(data any) *requestresponse.AssignmentList {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var list requestresponse.AssignmentList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return &list
}

// CreateAssignment проксирует создание задания
func (h *DashboardHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.Header().Set("Content-Type", "application/json")
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	h.proxy(w, r, func(ctx *proxyContext) (*apiclient.Response, error) {
		return h.assignmentsClient.Post(ctx.ctx, ctx.store, "/api/assignments", body)
	})
}

// ShuffleAssignments проксирует распределение вопросов
func (h *DashboardHandler) ShuffleAssignments(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.Header().Set("Content-Type", "application/json")
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	h.proxy(w, r, func(ctx *proxyContext) (*apiclient.Response, error) {
		return h.assignmentsClient.Post(ctx.ctx, ctx.store, "/api/assignments/shuffle", body)
	})
}

// DashboardPage : заглушка страницы панели за edge gate;
// SPA собирается отдельно и раздаётся как статика
func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	json.NewEncoder(w).Encode(apiclient.Response{Result: true, Data: "dashboard"})
}

type proxyContext struct {
	ctx   context.Context
	store ports.TokenStore
}

func (h *DashboardHandler) proxy(w http.ResponseWriter, r *http.Request, call func(*proxyContext) (*apiclient.Response, error)) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	store, ok := gateway.TokenStoreFromContext(ctx)
	if !ok {
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	result, err := call(&proxyContext{ctx: ctx, store: store})
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 502, "бэкенд недоступен")
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(result)
}

func userDataFromAuth(user *requestresponse.AuthUserResponse) *model.UserData {
	return &model.UserData{
		FullName: user.FullName,
		Email:    user.Email,
		Username: user.Username,
		Avatar:   user.Avatar,
	}
}

// currentUserFromData достаёт профиль из нормализованного ответа бэкенда
func currentUserFromData(data any) *model.UserData {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var parsed requestresponse.CurrentUserResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Response.User == nil {
		return nil
	}

	return parsed.Response.User.Display()
}
