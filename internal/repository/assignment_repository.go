package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"exam-dashboard-server/config"
	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/util"
)

type AssignmentRepository struct {
	*config.Database
}

func NewAssignmentRepository(database *config.Database) *AssignmentRepository {
	return &AssignmentRepository{database}
}

// Create : сохраняет новое задание
func (r *AssignmentRepository) Create(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error) {
	query := `
	INSERT INTO assignments (uuid, owner_uuid, question, answer, topic, level, score)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING uuid, owner_uuid, question, answer, topic, level, score, created_at, updated_at
	`

	created := &model.Assignment{}
	err := r.DB.QueryRowxContext(ctx, query,
		assignment.UUID,
		assignment.OwnerUUID,
		assignment.Question,
		assignment.Answer,
		assignment.Topic,
		assignment.Level,
		assignment.Score,
	).StructScan(created)

	if err != nil {
		return nil, util.LogError("[AssignmentRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// FindByUUID : ищет задание по UUID
func (r *AssignmentRepository) FindByUUID(ctx context.Context, uuid string) (*model.Assignment, error) {
	query := `SELECT uuid, owner_uuid, question, answer, topic, level, score, attachment_key, created_at, updated_at
				FROM assignments WHERE uuid = $1`

	var assignment model.Assignment
	err := sqlx.GetContext(ctx, r.DB, &assignment, query, uuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.LogError("[AssignmentRepo] задание не найдено", err)
		}
		return nil, util.LogError("[AssignmentRepo] ошибка при выполнении запроса", err)
	}
	return &assignment, nil
}

// ListByOwner : список заданий учителя с limit/offset пагинацией и общим количеством
func (r *AssignmentRepository) ListByOwner(ctx context.Context, ownerUUID string, limit, offset int) ([]*model.Assignment, int, error) {
	query := `
		SELECT uuid, owner_uuid, question, answer, topic, level, score, attachment_key, created_at, updated_at
		FROM assignments
		WHERE owner_uuid = $1
		ORDER BY created_at DESC, uuid DESC
		LIMIT $2 OFFSET $3
	`

	var assignments []*model.Assignment
	if err := sqlx.SelectContext(ctx, r.DB, &assignments, query, ownerUUID, limit, offset); err != nil {
		return nil, 0, util.LogError("[AssignmentRepo] не удалось получить список заданий", err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM assignments WHERE owner_uuid = $1`
	if err := sqlx.GetContext(ctx, r.DB, &total, countQuery, ownerUUID); err != nil {
		return nil, 0, util.LogError("[AssignmentRepo] не удалось посчитать задания", err)
	}

	return assignments, total, nil
}

// Update : обновляет содержимое задания
func (r *AssignmentRepository) Update(ctx context.Context, assignment *model.Assignment) error {
	query := `
		UPDATE assignments
		SET question = $2, answer = $3, topic = $4, level = $5, score = $6, updated_at = NOW()
		WHERE uuid = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		assignment.UUID,
		assignment.Question,
		assignment.Answer,
		assignment.Topic,
		assignment.Level,
		assignment.Score,
	)
	if err != nil {
		return util.LogError("[AssignmentRepo] не удалось обновить задание", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[AssignmentRepo] не удалось проверить, обновлено ли задание", err)
	}
	if rowsAffected == 0 {
		return util.LogError("[AssignmentRepo] задание для обновления не найдено", sql.ErrNoRows)
	}

	return nil
}

// SetAttachmentKey : привязывает ключ вложения в S3 к заданию
func (r *AssignmentRepository) SetAttachmentKey(ctx context.Context, uuid string, key string) error {
	query := `UPDATE assignments SET attachment_key = $2, updated_at = NOW() WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid, key)
	if err != nil {
		return util.LogError("[AssignmentRepo] не удалось сохранить ключ вложения", err)
	}
	return nil
}

// Delete : удаляет задание по UUID
func (r *AssignmentRepository) Delete(ctx context.Context, uuid string) error {
	query := `DELETE FROM assignments WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[AssignmentRepo] не удалось удалить задание", err)
	}
	return nil
}

// CountByTopicLevel : матрица доступности вопросов (тема × уровень знаний)
// для формы перемешивания
func (r *AssignmentRepository) CountByTopicLevel(ctx context.Context, ownerUUID string) (map[string]map[int]int, error) {
	query := `
		SELECT topic, level, COUNT(*) AS available
		FROM assignments
		WHERE owner_uuid = $1
		GROUP BY topic, level
	`

	rows, err := r.DB.QueryxContext(ctx, query, ownerUUID)
	if err != nil {
		return nil, util.LogError("[AssignmentRepo] не удалось собрать матрицу доступности", err)
	}
	defer rows.Close()

	matrix := make(map[string]map[int]int)
	for rows.Next() {
		var topic string
		var level, available int
		if err := rows.Scan(&topic, &level, &available); err != nil {
			return nil, util.LogError("[AssignmentRepo] ошибка чтения строки матрицы", err)
		}
		if matrix[topic] == nil {
			matrix[topic] = make(map[int]int)
		}
		matrix[topic][level] = available
	}
	if err := rows.Err(); err != nil {
		return nil, util.LogError("[AssignmentRepo] ошибка обхода строк матрицы", err)
	}

	return matrix, nil
}
