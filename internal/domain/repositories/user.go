package repositories

import (
	"context"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
)

type UserRepository interface {
	// CreateUser inserts the user with the welcome token balance and writes
	// the welcome_bonus ledger entry in the same transaction.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateUser(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}
