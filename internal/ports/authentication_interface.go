package ports

import (
	"context"

	"exam-dashboard-server/internal/model"
)

type AuthenticationService interface {
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*model.User, *model.TokensPair, error)
	RefreshToken(ctx context.Context, userAgent, ipAddress, refreshToken string) (*model.User, *model.TokensPair, error)
	Logout(ctx context.Context, refreshTokenUUID string) error
}
