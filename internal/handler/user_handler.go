package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/model/requestresponse"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// RegisterUser godoc
// @Summary Регистрация учителя
// @Description Создаёт учётную запись по фиксированному токену администратора
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 200 {object} requestresponse.AuthUserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v2/auth/register [post]
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email, username и password обязательны")
		return
	}

	user := &model.User{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
	}

	created, tokens, err := h.UserService.Register(ctx, req.Token, user, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "неверный токен администратора"):
			sendErrorResponse(w, 403, "доступ запрещён")
		case strings.Contains(err.Error(), "логин должен"),
			strings.Contains(err.Error(), "пароль должен"):
			sendErrorResponse(w, 400, err.Error())
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(authUserResponse(created, tokens))
}

// GetCurrentUser godoc
// @Summary Профиль текущего пользователя
// @Tags Users
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/v2/auth/me [get]
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	user, err := h.UserService.GetByUUID(ctx, claims.UserUUID)
	if err != nil {
		sendErrorResponse(w, 404, "пользователь не найден")
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.User = user

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// UpdateProfile godoc
// @Summary Обновление профиля
// @Description Обновляет отображаемые поля профиля текущего пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param body body requestresponse.UpdateProfileRequest true "Тело запроса"
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v2/users/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	var req requestresponse.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	user, err := h.UserService.UpdateProfile(ctx, claims.UserUUID, req.FullName, req.Username, req.Avatar)
	if err != nil {
		log.Println(err)
		if strings.Contains(err.Error(), "не найден") {
			sendErrorResponse(w, 404, "пользователь не найден")
		} else {
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.User = user

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}
