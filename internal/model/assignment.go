package model

import "time"

// Assignment : вопрос (задание), созданный учителем.
// Topic и Level образуют ячейку матрицы (тема × уровень знаний),
// по которой работает распределение вопросов при перемешивании.
type Assignment struct {
	UUID          string    `db:"uuid" json:"uuid"`
	OwnerUUID     string    `db:"owner_uuid" json:"owner_uuid"`
	Question      string    `db:"question" json:"question"`
	Answer        string    `db:"answer" json:"answer"`
	Topic         string    `db:"topic" json:"topic"`
	Level         int       `db:"level" json:"level"`
	Score         int       `db:"score" json:"score"`
	AttachmentKey string    `db:"attachment_key" json:"attachment_key,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
