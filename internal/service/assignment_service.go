package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/ports"
)

type AssignmentService struct {
	assignmentRepo ports.AssignmentRepository
	cacheRepo      ports.CacheRepository
	s3Storage      ports.S3Storage
	presignTTL     time.Duration
}

func NewAssignmentService(
	assignmentRepo ports.AssignmentRepository,
	cacheRepo ports.CacheRepository,
	s3Storage ports.S3Storage,
	presignTTL time.Duration,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		cacheRepo:      cacheRepo,
		s3Storage:      s3Storage,
		presignTTL:     presignTTL,
	}
}

func (s *AssignmentService) Create(ctx context.Context, ownerUUID string, assignment *model.Assignment) (*model.Assignment, error) {
	if assignment.Question == "" || assignment.Topic == "" {
		return nil, fmt.Errorf("[AssignmentService] вопрос и тема обязательны")
	}
	if assignment.Level < 1 || assignment.Level > 5 {
		return nil, fmt.Errorf("[AssignmentService] уровень знаний должен быть от 1 до 5")
	}

	assignment.UUID = uuid.New().String()
	assignment.OwnerUUID = ownerUUID

	created, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, fmt.Errorf("[AssignmentService] ошибка создания задания: %w", err)
	}

	if err := s.cacheRepo.SetAssignment(ctx, created); err != nil {
		// кэш не критичен, задание уже в БД
		log.Printf("[AssignmentService] не удалось закэшировать задание: %v", err)
	}

	return created, nil
}

func (s *AssignmentService) Get(ctx context.Context, ownerUUID string, assignmentUUID string) (*model.Assignment, error) {
	cached, err := s.cacheRepo.GetAssignment(ctx, assignmentUUID)
	if err == nil && cached != nil {
		if cached.OwnerUUID != ownerUUID {
			return nil, fmt.Errorf("[AssignmentService] доступ запрещён")
		}
		return cached, nil
	}

	assignment, err := s.assignmentRepo.FindByUUID(ctx, assignmentUUID)
	if err != nil {
		return nil, fmt.Errorf("[AssignmentService] задание не найдено: %w", err)
	}
	if assignment.OwnerUUID != ownerUUID {
		return nil, fmt.Errorf("[AssignmentService] доступ запрещён")
	}

	if err := s.cacheRepo.SetAssignment(ctx, assignment); err != nil {
		log.Printf("[AssignmentService] не удалось закэшировать задание: %v", err)
	}

	return assignment, nil
}

func (s *AssignmentService) List(ctx context.Context, ownerUUID string, limit, offset int) ([]*model.Assignment, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, total, err := s.assignmentRepo.ListByOwner(ctx, ownerUUID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("[AssignmentService] не удалось получить список: %w", err)
	}
	return list, total, nil
}

func (s *AssignmentService) Update(ctx context.Context, ownerUUID string, assignment *model.Assignment) (*model.Assignment, error) {
	stored, err := s.assignmentRepo.FindByUUID(ctx, assignment.UUID)
	if err != nil {
		return nil, fmt.Errorf("[AssignmentService] задание не найдено: %w", err)
	}
	if stored.OwnerUUID != ownerUUID {
		return nil, fmt.Errorf("[AssignmentService] доступ запрещён")
	}

	assignment.OwnerUUID = ownerUUID
	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("[AssignmentService] не удалось обновить задание: %w", err)
	}

	if err := s.cacheRepo.DeleteAssignment(ctx, assignment.UUID); err != nil {
		log.Printf("[AssignmentService] не удалось сбросить кэш задания: %v", err)
	}

	updated, err := s.assignmentRepo.FindByUUID(ctx, assignment.UUID)
	if err != nil {
		return nil, fmt.Errorf("[AssignmentService] не удалось перечитать задание: %w", err)
	}
	return updated, nil
}

func (s *AssignmentService) Delete(ctx context.Context, ownerUUID string, assignmentUUID string) error {
	stored, err := s.assignmentRepo.FindByUUID(ctx, assignmentUUID)
	if err != nil {
		return fmt.Errorf("[AssignmentService] задание не найдено: %w", err)
	}
	if stored.OwnerUUID != ownerUUID {
		return fmt.Errorf("[AssignmentService] доступ запрещён")
	}

	if err := s.assignmentRepo.Delete(ctx, assignmentUUID); err != nil {
		return fmt.Errorf("[AssignmentService] не удалось удалить задание: %w", err)
	}

	if stored.AttachmentKey != "" {
		if err := s.s3Storage.DeleteAttachment(ctx, stored.AttachmentKey); err != nil {
			log.Printf("[AssignmentService] не удалось удалить вложение: %v", err)
		}
	}

	if err := s.cacheRepo.DeleteAssignment(ctx, assignmentUUID); err != nil {
		log.Printf("[AssignmentService] не удалось сбросить кэш задания: %v", err)
	}

	return nil
}

// AttachmentUploadURL выдаёт pre-signed PUT URL для вложения задания
// и привязывает ключ объекта к заданию
func (s *AssignmentService) AttachmentUploadURL(ctx context.Context, ownerUUID string, assignmentUUID string) (string, string, error) {
	stored, err := s.assignmentRepo.FindByUUID(ctx, assignmentUUID)
	if err != nil {
		return "", "", fmt.Errorf("[AssignmentService] задание не найдено: %w", err)
	}
	if stored.OwnerUUID != ownerUUID {
		return "", "", fmt.Errorf("[AssignmentService] доступ запрещён")
	}

	key := s.s3Storage.AttachmentKey(assignmentUUID)
	url, err := s.s3Storage.PresignAttachmentPut(ctx, key, s.presignTTL)
	if err != nil {
		return "", "", fmt.Errorf("[AssignmentService] не удалось сгенерировать URL загрузки: %w", err)
	}

	if err := s.assignmentRepo.SetAttachmentKey(ctx, assignmentUUID, key); err != nil {
		return "", "", fmt.Errorf("[AssignmentService] не удалось привязать вложение: %w", err)
	}

	if err := s.cacheRepo.DeleteAssignment(ctx, assignmentUUID); err != nil {
		log.Printf("[AssignmentService] не удалось сбросить кэш задания: %v", err)
	}

	return key, url, nil
}

// AttachmentDownloadURL выдаёт pre-signed GET URL для чтения вложения
func (s *AssignmentService) AttachmentDownloadURL(ctx context.Context, ownerUUID string, assignmentUUID string) (string, string, error) {
	stored, err := s.assignmentRepo.FindByUUID(ctx, assignmentUUID)
	if err != nil {
		return "", "", fmt.Errorf("[AssignmentService] задание не найдено: %w", err)
	}
	if stored.OwnerUUID != ownerUUID {
		return "", "", fmt.Errorf("[AssignmentService] доступ запрещён")
	}
	if stored.AttachmentKey == "" {
		return "", "", fmt.Errorf("[AssignmentService] у задания нет вложения")
	}

	url, err := s.s3Storage.PresignAttachmentGet(ctx, stored.AttachmentKey, s.presignTTL)
	if err != nil {
		return "", "", fmt.Errorf("[AssignmentService] не удалось сгенерировать URL чтения: %w", err)
	}

	return stored.AttachmentKey, url, nil
}
