package service

import (
	"context"
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"exam-dashboard-server/config"
	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
)

type UserService struct {
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
	jwtRepository  ports.JWTRepositoryInterface
	adminToken     *config.AdminConfig
}

func NewUserService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
	jwtRepository ports.JWTRepositoryInterface,
	adminToken *config.AdminConfig,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		jwtService:     jwtService,
		jwtRepository:  jwtRepository,
		adminToken:     adminToken,
	}
}

// Register создает учётную запись учителя. Регистрация закрытая:
// требуется фиксированный токен администратора.
func (s *UserService) Register(ctx context.Context, adminToken string, req *model.User, password string, userAgent, ipAddress string) (*model.User, *model.TokensPair, error) {
	if s.adminToken == nil || adminToken != s.adminToken.AdminToken {
		return nil, nil, fmt.Errorf("[UserService] неверный токен администратора")
	}

	if len(req.Username) < 8 {
		return nil, nil, fmt.Errorf("[UserService] логин должен быть не меньше 8 символов")
	}
	for _, c := range req.Username {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return nil, nil, fmt.Errorf("[UserService] логин должен содержать только латинские буквы и цифры")
		}
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("[UserService] %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("[UserService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		Avatar:       req.Avatar,
		PasswordHash: hash,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("[UserService] ошибка создания пользователя: %w", err)
	}

	tokens, refreshToken, err := s.jwtService.GenerateAccessRefreshTokens(created.UUID)
	if err != nil {
		return nil, nil, fmt.Errorf("[UserService] ошибка генерации токенов: %w", err)
	}

	refreshToken.UserAgent = userAgent
	refreshToken.IpAddress = ipAddress

	if err := s.jwtRepository.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, nil, fmt.Errorf("[UserService] не удалось сохранить refresh токен: %w", err)
	}

	return created, tokens, nil
}

// GetByUUID : профиль пользователя
func (s *UserService) GetByUUID(ctx context.Context, uuid string) (*model.User, error) {
	user, err := s.userRepository.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("[UserService] пользователь не найден: %w", err)
	}
	return user, nil
}

// UpdateProfile обновляет отображаемые поля профиля.
// Обновлённый пользователь возвращается целиком: шлюз по нему
// перезаписывает куку userData.
func (s *UserService) UpdateProfile(ctx context.Context, uuid, fullName, username, avatar string) (*model.User, error) {
	user, err := s.userRepository.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("[UserService] пользователь не найден: %w", err)
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if username != "" {
		user.Username = username
	}
	if avatar != "" {
		user.Avatar = avatar
	}

	if err := s.userRepository.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("[UserService] не удалось обновить профиль: %w", err)
	}

	return user, nil
}

// validatePassword : минимальные требования к паролю
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен быть не меньше 8 символов")
	}

	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return fmt.Errorf("пароль должен содержать буквы и цифры")
	}

	return nil
}
