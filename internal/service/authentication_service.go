package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"exam-dashboard-server/config"
	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/notifier"
	"exam-dashboard-server/internal/ports"
	"exam-dashboard-server/internal/security"
	"exam-dashboard-server/internal/util"
)

type AuthenticationService struct {
	jwtRepoInterface ports.JWTRepositoryInterface
	*config.AppConfig
	jwtServiceInterface ports.JWTServiceInterface
	userRepository      ports.UserRepository
}

func NewAuthenticationService(
	repo ports.JWTRepositoryInterface,
	cfg *config.AppConfig,
	service ports.JWTServiceInterface,
	userInterface ports.UserRepository,
) *AuthenticationService {
	return &AuthenticationService{
		repo,
		cfg,
		service,
		userInterface,
	}
}

func (s *AuthenticationService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*model.User, *model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("неверный логин или пароль")
	}

	tokens, refreshToken, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(user.UUID)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	refreshToken.UserAgent = userAgent
	refreshToken.IpAddress = ipAddress

	if err := s.jwtRepoInterface.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, nil, fmt.Errorf("ошибка сохранения refresh токена: %w", err)
	}

	return user, tokens, nil
}

// RefreshToken обменивает refresh-токен на новую пару.
// Клиент идентифицирует токен только его строкой: {refreshToken}.
// Требования к операции:
//  1. Токен одноразовый: повторное использование запрещено.
//  2. Обновление с другим User-Agent запрещено; после такой попытки
//     токен помечается использованным, и пользователь деавторизуется.
//  3. Обновление с нового IP разрешено, но на заданный webhook уходит
//     POST с информацией о попытке.
//
// Возвращает пользователя (для user-shaped ответа) и новую пару токенов.
func (s *AuthenticationService) RefreshToken(ctx context.Context, userAgent string, ipAddress string, refreshToken string) (*model.User, *model.TokensPair, error) {
	tokenHash := security.HashRefreshToken(refreshToken)

	storedRefreshToken, err := s.jwtRepoInterface.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, nil, util.LogError("не удалось найти рефреш токен", err)
	}

	if storedRefreshToken.Used {
		log.Printf("refresh token %s уже был использован", storedRefreshToken.UUID)
		return nil, nil, fmt.Errorf("невалидный токен")
	}

	if time.Now().UTC().After(storedRefreshToken.ExpireAt) {
		log.Printf("refresh token %s просрочен", storedRefreshToken.UUID)
		return nil, nil, fmt.Errorf("невалидный токен")
	}

	if storedRefreshToken.UserAgent != userAgent {
		if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, storedRefreshToken.UUID); err != nil {
			log.Printf("не удалось пометить токен использованным: %v", err)
		}
		log.Printf("refresh token %s: попытка обновления с другого User-Agent", storedRefreshToken.UUID)
		return nil, nil, fmt.Errorf("невалидный токен")
	}

	if storedRefreshToken.IpAddress != ipAddress {
		log.Printf("обнаружен вход с нового ip адреса, отправка webhook")
		go func() {
			if err := notifier.NotifyWebhook(s.AppConfig.Webhook.URL, storedRefreshToken.UserUUID, ipAddress, storedRefreshToken.IpAddress); err != nil {
				log.Printf("ошибка отправки webhook: %v", err)
			}
		}()
	}

	user, err := s.userRepository.FindByUUID(ctx, storedRefreshToken.UserUUID)
	if err != nil {
		return nil, nil, util.LogError("не удалось найти пользователя токена", err)
	}

	if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, storedRefreshToken.UUID); err != nil {
		return nil, nil, util.LogError("не удалось использовать токен", err)
	}

	tokensPair, newRefreshToken, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(storedRefreshToken.UserUUID)
	if err != nil {
		return nil, nil, util.LogError("ошибка генерации токенов", err)
	}

	newRefreshToken.UserAgent = userAgent
	newRefreshToken.IpAddress = ipAddress
	err = s.jwtRepoInterface.SaveRefreshToken(ctx, newRefreshToken)
	if err != nil {
		return nil, nil, util.LogError("не удалось сохранить рефреш токен", err)
	}

	return user, tokensPair, nil
}

// Logout "деактивирует" пользователя.
// Изменяет статус поля used у refresh-токена и делает его равным true
func (s *AuthenticationService) Logout(ctx context.Context, refreshTokenUUID string) error {
	err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return fmt.Errorf("не удалось использовать токен: %w", err)
	}
	return nil
}
