package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/questforge/questforge-backend/internal/engine/repository/queries"
	"github.com/questforge/questforge-backend/pkg/database"
)

// ReplayRepository is the replay ledger: at most one completion may ever
// consume a given transaction hash.
type ReplayRepository interface {
	Claim(ctx context.Context, txHash string, userID, taskID int64) (bool, error)
}

type replayRepository struct {
	db *database.Connection
}

func NewReplayRepository(db *database.Connection) ReplayRepository {
	return &replayRepository{db: db}
}

// Claim registers the hash atomically. The conditional insert is the whole
// mechanism; there is no separate existence check to race against.
func (r *replayRepository) Claim(ctx context.Context, txHash string, userID, taskID int64) (bool, error) {
	applied, err := r.db.Session().Query(queries.ClaimTransactionHashQuery,
		txHash, userID, taskID, time.Now().UTC(),
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("error claiming transaction hash: %w", err)
	}
	return applied, nil
}
