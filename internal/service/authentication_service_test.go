package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"exam-dashboard-server/config"
	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/security"
	"exam-dashboard-server/internal/service"
)

// ===== MOCKS =====

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, uuid string, newPasswordHash string) error {
	args := m.Called(ctx, uuid, newPasswordHash)
	return args.Error(0)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessRefreshTokens(userUUID string) (*model.TokensPair, *model.RefreshToken, error) {
	args := m.Called(userUUID)

	var tokens *model.TokensPair
	if t := args.Get(0); t != nil {
		tokens = t.(*model.TokensPair)
	}

	var refresh *model.RefreshToken
	if r := args.Get(1); r != nil {
		refresh = r.(*model.RefreshToken)
	}

	return tokens, refresh, args.Error(2)
}

func (m *MockJWTService) ValidateJWT(tokenString string, secret []byte) (*security.Claims, error) {
	args := m.Called(tokenString, secret)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockJWTRepo
type MockJWTRepo struct {
	mock.Mock
}

func (m *MockJWTRepo) SaveRefreshToken(ctx context.Context, refreshToken *model.RefreshToken) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockJWTRepo) FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error) {
	args := m.Called(ctx, uuid)
	if token, ok := args.Get(0).(*model.RefreshToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if token, ok := args.Get(0).(*model.RefreshToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTRepo) MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

// ===== HELPERS =====

func newTestAuthService() (*service.AuthenticationService, *MockUserRepository, *MockJWTService, *MockJWTRepo) {
	mockUserRepo := new(MockUserRepository)
	mockJWTService := new(MockJWTService)
	mockJWTRepo := new(MockJWTRepo)

	svc := service.NewAuthenticationService(
		mockJWTRepo,
		&config.AppConfig{},
		mockJWTService,
		mockUserRepo,
	)

	return svc, mockUserRepo, mockJWTService, mockJWTRepo
}

// ===== TESTS =====

// 1. Пользователь не найден
func TestLogin_UserNotFound(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "teacher@yesh.mn").
		Return(nil, errors.New("not found"))

	_, _, err := svc.Login(ctx, "teacher@yesh.mn", "pass", "agent", "127.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "пользователь не найден")
	mockUserRepo.AssertExpectations(t)
}

// 2. Неверный пароль
func TestLogin_WrongPassword(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	// создаем юзера с хэшем от "goodpass"
	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", PasswordHash: hash}

	mockUserRepo.On("FindByEmail", ctx, "teacher@yesh.mn").
		Return(user, nil)

	_, _, err := svc.Login(ctx, "teacher@yesh.mn", "badpass", "agent", "127.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "неверный логин или пароль")
	mockUserRepo.AssertExpectations(t)
}

// 3. Ошибка генерации токенов
func TestLogin_GenerateTokensError(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", PasswordHash: hash}

	mockUserRepo.On("FindByEmail", ctx, "teacher@yesh.mn").
		Return(user, nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "u1").
		Return(nil, nil, errors.New("token error"))

	_, _, err := svc.Login(ctx, "teacher@yesh.mn", "goodpass", "agent", "127.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка генерации токенов")
	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// 4. Ошибка сохранения refresh токена
func TestLogin_SaveRefreshTokenError(t *testing.T) {
	svc, mockUserRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", PasswordHash: hash}
	tokens := &model.TokensPair{AccessToken: "acc"}
	refresh := &model.RefreshToken{
		UUID:     "r1",
		UserUUID: "u1",
		ExpireAt: time.Now().Add(24 * time.Hour),
	}

	mockUserRepo.On("FindByEmail", ctx, "teacher@yesh.mn").
		Return(user, nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "u1").
		Return(tokens, refresh, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, refresh).
		Return(errors.New("db error"))

	_, _, err := svc.Login(ctx, "teacher@yesh.mn", "goodpass", "agent", "127.0.0.1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка сохранения refresh токена")
	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
	mockJWTRepo.AssertExpectations(t)
}

// 5. Успешный логин
func TestLogin_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", PasswordHash: hash}
	tokens := &model.TokensPair{AccessToken: "acc"}
	refresh := &model.RefreshToken{
		UUID:     "r1",
		UserUUID: "u1",
		ExpireAt: time.Now().Add(24 * time.Hour),
	}

	mockUserRepo.On("FindByEmail", ctx, "teacher@yesh.mn").
		Return(user, nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "u1").
		Return(tokens, refresh, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, refresh).
		Return(nil)

	gotUser, gotTokens, err := svc.Login(ctx, "teacher@yesh.mn", "goodpass", "agent", "127.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, user, gotUser)
	assert.Equal(t, tokens, gotTokens)
	assert.Equal(t, "agent", refresh.UserAgent)
	assert.Equal(t, "127.0.0.1", refresh.IpAddress)

	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
	mockJWTRepo.AssertExpectations(t)
}

// ===== REFRESH TOKEN =====

func storedToken(refreshToken string) *model.RefreshToken {
	return &model.RefreshToken{
		UUID:      "r1",
		UserUUID:  "u1",
		TokenHash: security.HashRefreshToken(refreshToken),
		ExpireAt:  time.Now().Add(time.Hour),
		UserAgent: "agent",
		IpAddress: "127.0.0.1",
	}
}

// 6. Токен не найден по хэшу
func TestRefreshToken_NotFound(t *testing.T) {
	svc, _, _, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	mockJWTRepo.On("FindByTokenHash", ctx, security.HashRefreshToken("unknown")).
		Return(nil, errors.New("not found"))

	_, _, err := svc.RefreshToken(ctx, "agent", "127.0.0.1", "unknown")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не удалось найти рефреш токен")
	mockJWTRepo.AssertExpectations(t)
}

// 7. Повторное использование одноразового токена запрещено
func TestRefreshToken_UsedToken(t *testing.T) {
	svc, _, _, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	rt := storedToken("refresh123")
	rt.Used = true

	mockJWTRepo.On("FindByTokenHash", ctx, rt.TokenHash).Return(rt, nil)

	_, _, err := svc.RefreshToken(ctx, "agent", "127.0.0.1", "refresh123")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "невалидный токен")
}

// 8. Просроченный токен
func TestRefreshToken_ExpiredToken(t *testing.T) {
	svc, _, _, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	rt := storedToken("refresh123")
	rt.ExpireAt = time.Now().Add(-time.Hour)

	mockJWTRepo.On("FindByTokenHash", ctx, rt.TokenHash).Return(rt, nil)

	_, _, err := svc.RefreshToken(ctx, "agent", "127.0.0.1", "refresh123")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "невалидный токен")
}

// 9. Обновление с другого User-Agent: токен помечается использованным
func TestRefreshToken_UserAgentMismatch(t *testing.T) {
	svc, _, _, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	rt := storedToken("refresh123")

	mockJWTRepo.On("FindByTokenHash", ctx, rt.TokenHash).Return(rt, nil)
	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(nil)

	_, _, err := svc.RefreshToken(ctx, "other-agent", "127.0.0.1", "refresh123")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "невалидный токен")
	mockJWTRepo.AssertExpectations(t)
}

// 10. Успешное обновление: старый токен использован, выдана новая пара
func TestRefreshToken_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	rt := storedToken("refresh123")
	user := &model.User{UUID: "u1", Email: "teacher@yesh.mn"}
	tokensPair := &model.TokensPair{AccessToken: "acc"}
	newRefresh := &model.RefreshToken{}

	mockJWTRepo.On("FindByTokenHash", ctx, rt.TokenHash).Return(rt, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").Return(user, nil)
	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "u1").Return(tokensPair, newRefresh, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, newRefresh).Return(nil)

	gotUser, gotTokens, err := svc.RefreshToken(ctx, "agent", "127.0.0.1", "refresh123")

	assert.NoError(t, err)
	assert.Equal(t, user, gotUser)
	assert.Equal(t, tokensPair, gotTokens)
	assert.Equal(t, "agent", newRefresh.UserAgent)
	assert.Equal(t, "127.0.0.1", newRefresh.IpAddress)
}

// 11. Обновление с нового IP разрешено
func TestRefreshToken_NewIPAllowed(t *testing.T) {
	svc, mockUserRepo, mockJWTService, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	rt := storedToken("refresh123")
	user := &model.User{UUID: "u1"}
	tokensPair := &model.TokensPair{AccessToken: "acc"}
	newRefresh := &model.RefreshToken{}

	mockJWTRepo.On("FindByTokenHash", ctx, rt.TokenHash).Return(rt, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").Return(user, nil)
	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(nil)
	mockJWTService.On("GenerateAccessRefreshTokens", "u1").Return(tokensPair, newRefresh, nil)
	mockJWTRepo.On("SaveRefreshToken", ctx, newRefresh).Return(nil)

	_, gotTokens, err := svc.RefreshToken(ctx, "agent", "10.0.0.5", "refresh123")

	assert.NoError(t, err)
	assert.Equal(t, tokensPair, gotTokens)
	assert.Equal(t, "10.0.0.5", newRefresh.IpAddress)
}

// ===== LOGOUT =====

// 12. Logout помечает токен использованным
func TestLogout_Success(t *testing.T) {
	svc, _, _, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(nil)

	err := svc.Logout(ctx, "r1")

	assert.NoError(t, err)
	mockJWTRepo.AssertExpectations(t)
}

// 13. Logout с ошибкой БД
func TestLogout_RepositoryError(t *testing.T) {
	svc, _, _, mockJWTRepo := newTestAuthService()
	ctx := context.Background()

	mockJWTRepo.On("MarkRefreshTokenUsedByUUID", ctx, "r1").Return(errors.New("db error"))

	err := svc.Logout(ctx, "r1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не удалось использовать токен")
}
