package repository

import (
	"context"
	"fmt"

	"github.com/questforge/questforge-backend/internal/engine/repository/queries"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/database"
)

// UserRepository is the identity resolver: it maps an authenticated caller
// to a user id and primary wallet address.
type UserRepository interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (types.User, error)
}

type userRepository struct {
	db *database.Connection
}

func NewUserRepository(db *database.Connection) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByAPIKey(ctx context.Context, apiKey string) (types.User, error) {
	var user types.User
	err := r.db.Session().Query(queries.GetUserByAPIKeyQuery, apiKey).WithContext(ctx).Scan(
		&user.UserID, &user.Role, &user.WalletAddress, &user.APIKey,
	)
	if err != nil {
		return types.User{}, fmt.Errorf("error getting user by api key: %w", err)
	}
	return user, nil
}
