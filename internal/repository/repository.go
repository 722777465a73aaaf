package repository

import (
	"context"

	"github.com/Brigames121/ChatGPT-Beta/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// SettingRepository persists admin settings.
type SettingRepository interface {
	UpsertSetting(ctx context.Context, setting domain.Setting) error
	GetSetting(ctx context.Context, id string) (*domain.Setting, error)
	ListSettings(ctx context.Context) ([]domain.Setting, error)
}

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
