package requestresponse

import (
	"encoding/json"

	"exam-dashboard-server/internal/model"
)

// CreateAssignmentRequest : тело запроса на создание задания
type CreateAssignmentRequest struct {
	Question string `json:"question" example:"Чему равно 2+2?"`
	Answer   string `json:"answer" example:"4"`
	Topic    string `json:"topic" example:"Арифметика"`
	Level    int    `json:"level" example:"1"`
	Score    int    `json:"score" example:"5"`
}

// UpdateAssignmentRequest : тело запроса на обновление задания
type UpdateAssignmentRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Topic    string `json:"topic"`
	Level    int    `json:"level"`
	Score    int    `json:"score"`
}

// AssignmentListResponse : успешный ответ со списком заданий
type AssignmentListResponse struct {
	Data struct {
		List  []*model.Assignment `json:"list"`
		Total int                 `json:"total"`
	} `json:"data"`
}

// AssignmentList : список заданий, пришедший от бэкенда.
// Бэкенд отдаёт либо конверт {"data":{"list":[...],"total":N}},
// либо голый массив. Paginated различает эти две формы.
type AssignmentList struct {
	List      []*model.Assignment
	Total     int
	Paginated bool
}

func (l *AssignmentList) UnmarshalJSON(b []byte) error {
	var envelope AssignmentListResponse
	if err := json.Unmarshal(b, &envelope); err == nil && envelope.Data.List != nil {
		l.List = envelope.Data.List
		l.Total = envelope.Data.Total
		l.Paginated = true
		return nil
	}

	var raw []*model.Assignment
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	l.List = raw
	l.Total = len(raw)
	l.Paginated = false
	return nil
}

// AttachmentResponse : pre-signed URL для загрузки или чтения вложения
type AttachmentResponse struct {
	Response struct {
		Key string `json:"key"`
		URL string `json:"url"`
	} `json:"response"`
}

// ShuffleCell : одна ячейка матрицы (тема × уровень знаний)
type ShuffleCell struct {
	Topic     string `json:"topic" example:"Арифметика"`
	Level     int    `json:"level" example:"1"`
	Available int    `json:"available" example:"12"`
}

// ShuffleRequest : запрос на распределение вопросов по ячейкам.
// Если allocations заполнены, распределение составлено учителем вручную
// и только проверяется, а не пересчитывается.
type ShuffleRequest struct {
	Total       int                 `json:"total" example:"20"`
	MaxCount    int                 `json:"max_count" example:"40"`
	Cells       []ShuffleCell       `json:"cells"`
	Allocations []ShuffleAllocation `json:"allocations,omitempty"`
}

// ShuffleAllocation : сколько вопросов назначено ячейке
type ShuffleAllocation struct {
	Topic string `json:"topic"`
	Level int    `json:"level"`
	Count int    `json:"count"`
}

// ShuffleResponse : успешный ответ на распределение
type ShuffleResponse struct {
	Response struct {
		Total       int                 `json:"total"`
		Allocations []ShuffleAllocation `json:"allocations"`
	} `json:"response"`
}
