package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/model/requestresponse"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
	"exam-dashboard-server/internal/service"
)

type AssignmentHandler struct {
	assignmentService ports.AssignmentService
	shuffleService    *service.ShuffleService
}

func NewAssignmentHandler(assignmentService ports.AssignmentService, shuffleService *service.ShuffleService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		shuffleService:    shuffleService,
	}
}

// ListAssignments godoc
// @Summary Список заданий учителя
// @Tags Assignments
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} requestresponse.AssignmentListResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/assignments [get]
func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, total, err := h.assignmentService.List(ctx, claims.UserUUID, limit, offset)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	resp := requestresponse.AssignmentListResponse{}
	resp.Data.List = list
	resp.Data.Total = total
	if resp.Data.List == nil {
		resp.Data.List = []*model.Assignment{}
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// CreateAssignment godoc
// @Summary Создание задания
// @Tags Assignments
// @Accept json
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param body body requestresponse.CreateAssignmentRequest true "Тело запроса"
// @Success 200 {object} model.Assignment
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/assignments [post]
func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	var req requestresponse.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	assignment := &model.Assignment{
		Question: req.Question,
		Answer:   req.Answer,
		Topic:    req.Topic,
		Level:    req.Level,
		Score:    req.Score,
	}

	created, err := h.assignmentService.Create(ctx, claims.UserUUID, assignment)
	if err != nil {
		log.Println(err)
		if strings.Contains(err.Error(), "обязательны") || strings.Contains(err.Error(), "уровень знаний") {
			sendErrorResponse(w, 400, err.Error())
		} else {
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(created)
}

// GetAssignment godoc
// @Summary Получение задания
// @Tags Assignments
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param assignment_id path string true "UUID задания"
// @Success 200 {object} model.Assignment
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/assignments/{assignment_id} [get]
func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	assignment, err := h.assignmentService.Get(ctx, claims.UserUUID, chi.URLParam(r, "assignment_id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(assignment)
}

// UpdateAssignment godoc
// @Summary Обновление задания
// @Tags Assignments
// @Accept json
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param assignment_id path string true "UUID задания"
// @Param body body requestresponse.UpdateAssignmentRequest true "Тело запроса"
// @Success 200 {object} model.Assignment
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/assignments/{assignment_id} [put]
func (h *AssignmentHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	var req requestresponse.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	assignment := &model.Assignment{
		UUID:     chi.URLParam(r, "assignment_id"),
		Question: req.Question,
		Answer:   req.Answer,
		Topic:    req.Topic,
		Level:    req.Level,
		Score:    req.Score,
	}

	updated, err := h.assignmentService.Update(ctx, claims.UserUUID, assignment)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(updated)
}

// DeleteAssignment godoc
// @Summary Удаление задания
// @Tags Assignments
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param assignment_id path string true "UUID задания"
// @Success 200 {string} string "удалено"
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/assignments/{assignment_id} [delete]
func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	if err := h.assignmentService.Delete(ctx, claims.UserUUID, chi.URLParam(r, "assignment_id")); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(map[string]bool{"deleted": true})
}

// ShuffleAssignments godoc
// @Summary Распределение вопросов по матрице (тема × уровень)
// @Description Если в запросе переданы allocations, распределение заполнено
// @Description учителем вручную и только проверяется. Иначе распределение
// @Description считается по переданным ячейкам, а при их отсутствии матрица
// @Description доступности строится по банку вопросов учителя.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param body body requestresponse.ShuffleRequest true "Тело запроса"
// @Success 200 {object} requestresponse.ShuffleResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/assignments/shuffle [post]
func (h *AssignmentHandler) ShuffleAssignments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	var req requestresponse.ShuffleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	var allocations []requestresponse.ShuffleAllocation
	switch {
	case len(req.Allocations) > 0:
		cells := req.Cells
		if len(cells) == 0 {
			cells, err = h.shuffleService.Cells(ctx, claims.UserUUID)
			if err != nil {
				log.Println(err)
				sendErrorResponse(w, 500, "внутренняя ошибка сервера")
				return
			}
		}
		err = service.Validate(req.Total, req.MaxCount, cells, req.Allocations)
		allocations = req.Allocations
	case len(req.Cells) > 0:
		allocations, err = service.Distribute(req.Total, req.MaxCount, req.Cells)
	default:
		allocations, err = h.shuffleService.Shuffle(ctx, claims.UserUUID, req.Total, req.MaxCount)
	}
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 400, err.Error())
		return
	}

	resp := requestresponse.ShuffleResponse{}
	resp.Response.Total = req.Total
	resp.Response.Allocations = allocations

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// UploadAttachment godoc
// @Summary Pre-signed URL для загрузки вложения
// @Tags Assignments
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param assignment_id path string true "UUID задания"
// @Success 200 {object} requestresponse.AttachmentResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/assignments/{assignment_id}/attachment [post]
func (h *AssignmentHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	h.attachmentURL(w, r, h.assignmentService.AttachmentUploadURL)
}

// DownloadAttachment godoc
// @Summary Pre-signed URL для чтения вложения
// @Tags Assignments
// @Produce json
// @Param X-Access-Token header string true "Access токен"
// @Param assignment_id path string true "UUID задания"
// @Success 200 {object} requestresponse.AttachmentResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/assignments/{assignment_id}/attachment [get]
func (h *AssignmentHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	h.attachmentURL(w, r, h.assignmentService.AttachmentDownloadURL)
}

type attachmentURLFunc func(ctx context.Context, ownerUUID string, assignmentUUID string) (string, string, error)

func (h *AssignmentHandler) attachmentURL(w http.ResponseWriter, r *http.Request, urlFunc attachmentURLFunc) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	key, url, err := urlFunc(ctx, claims.UserUUID, chi.URLParam(r, "assignment_id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := requestresponse.AttachmentResponse{}
	resp.Response.Key = key
	resp.Response.URL = url

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

func (h *AssignmentHandler) writeServiceError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case strings.Contains(err.Error(), "доступ запрещён"):
		sendErrorResponse(w, 403, "доступ запрещён")
	case strings.Contains(err.Error(), "не найдено"), strings.Contains(err.Error(), "нет вложения"):
		sendErrorResponse(w, 404, "задание не найдено")
	default:
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
	}
}
