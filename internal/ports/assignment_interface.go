package ports

import (
	"context"
	"time"

	"exam-dashboard-server/internal/model"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error)
	FindByUUID(ctx context.Context, uuid string) (*model.Assignment, error)
	ListByOwner(ctx context.Context, ownerUUID string, limit, offset int) ([]*model.Assignment, int, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	SetAttachmentKey(ctx context.Context, uuid, key string) error
	Delete(ctx context.Context, uuid string) error
	CountByTopicLevel(ctx context.Context, ownerUUID string) (map[string]map[int]int, error)
}

type AssignmentService interface {
	Create(ctx context.Context, ownerUUID string, assignment *model.Assignment) (*model.Assignment, error)
	Get(ctx context.Context, ownerUUID string, assignmentUUID string) (*model.Assignment, error)
	List(ctx context.Context, ownerUUID string, limit, offset int) ([]*model.Assignment, int, error)
	Update(ctx context.Context, ownerUUID string, assignment *model.Assignment) (*model.Assignment, error)
	Delete(ctx context.Context, ownerUUID string, assignmentUUID string) error
	AttachmentUploadURL(ctx context.Context, ownerUUID string, assignmentUUID string) (string, string, error)
	AttachmentDownloadURL(ctx context.Context, ownerUUID string, assignmentUUID string) (string, string, error)
}

// CacheRepository : Redis слой
type CacheRepository interface {
	SetAssignment(ctx context.Context, assignment *model.Assignment) error
	GetAssignment(ctx context.Context, uuid string) (*model.Assignment, error)
	DeleteAssignment(ctx context.Context, uuid string) error
}

// S3Storage : хранилище вложений заданий в S3
type S3Storage interface {
	AttachmentKey(assignmentUUID string) string
	PresignAttachmentGet(ctx context.Context, key string, expire time.Duration) (string, error)
	PresignAttachmentPut(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteAttachment(ctx context.Context, key string) error
}
