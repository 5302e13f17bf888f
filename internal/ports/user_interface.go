package ports

import (
	"context"

	"exam-dashboard-server/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, uuid string, newPasswordHash string) error
}

type UserService interface {
	Register(ctx context.Context, adminToken string, req *model.User, password string, userAgent, ipAddress string) (*model.User, *model.TokensPair, error)
	GetByUUID(ctx context.Context, uuid string) (*model.User, error)
	UpdateProfile(ctx context.Context, uuid, fullName, username, avatar string) (*model.User, error)
}
