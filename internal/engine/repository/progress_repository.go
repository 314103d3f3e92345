package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/questforge/questforge-backend/internal/engine/repository/queries"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/database"
)

type ProgressRepository interface {
	GetQuestProgress(ctx context.Context, userID, questID int64) (types.UserQuestProgress, error)
	ListIncomplete(ctx context.Context) ([]types.UserQuestProgress, error)
	UpdateProgress(ctx context.Context, userID, questID int64, completedTasks int, isCompleted bool, xpEarned int64) error
	SetAttestationUID(ctx context.Context, userID, questID int64, uid string) (applied bool, existing string, err error)
	MarkRewardClaimed(ctx context.Context, userID, questID int64) (bool, error)
}

type progressRepository struct {
	db *database.Connection
}

func NewProgressRepository(db *database.Connection) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetQuestProgress(ctx context.Context, userID, questID int64) (types.UserQuestProgress, error) {
	var progress types.UserQuestProgress
	err := r.db.Session().Query(queries.GetQuestProgressQuery, userID, questID).WithContext(ctx).Scan(
		&progress.UserID, &progress.QuestID, &progress.CompletedTasks, &progress.IsCompleted,
		&progress.RewardClaimed, &progress.XPEarned, &progress.KeyClaimAttestationUID,
		&progress.UpdatedAt,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		// No row yet means zero progress, not an error
		return types.UserQuestProgress{UserID: userID, QuestID: questID}, nil
	}
	if err != nil {
		return types.UserQuestProgress{}, fmt.Errorf("error getting quest progress: %w", err)
	}
	return progress, nil
}

func (r *progressRepository) ListIncomplete(ctx context.Context) ([]types.UserQuestProgress, error) {
	iter := r.db.Session().Query(queries.ListIncompleteProgressQuery).WithContext(ctx).Iter()

	var rows []types.UserQuestProgress
	var p types.UserQuestProgress
	for iter.Scan(
		&p.UserID, &p.QuestID, &p.CompletedTasks, &p.IsCompleted,
		&p.RewardClaimed, &p.XPEarned, &p.KeyClaimAttestationUID, &p.UpdatedAt,
	) {
		rows = append(rows, p)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("error listing incomplete progress: %w", err)
	}
	return rows, nil
}

func (r *progressRepository) UpdateProgress(ctx context.Context, userID, questID int64, completedTasks int, isCompleted bool, xpEarned int64) error {
	err := r.db.Session().Query(queries.UpdateQuestProgressQuery,
		completedTasks, isCompleted, xpEarned, time.Now().UTC(), userID, questID,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("error updating quest progress: %w", err)
	}
	return nil
}

// SetAttestationUID lands the UID only if none is stored yet. When the
// write does not apply, the previously stored UID is returned so callers
// can hand it back verbatim.
func (r *progressRepository) SetAttestationUID(ctx context.Context, userID, questID int64, uid string) (bool, string, error) {
	previous := map[string]interface{}{}
	applied, err := r.db.Session().Query(queries.SetAttestationUIDQuery,
		uid, time.Now().UTC(), userID, questID,
	).WithContext(ctx).MapScanCAS(previous)
	if err != nil {
		return false, "", fmt.Errorf("error setting attestation uid: %w", err)
	}
	if applied {
		return true, uid, nil
	}
	existing, _ := previous["key_claim_attestation_uid"].(string)
	return false, existing, nil
}

func (r *progressRepository) MarkRewardClaimed(ctx context.Context, userID, questID int64) (bool, error) {
	applied, err := r.db.Session().Query(queries.MarkQuestRewardClaimedQuery,
		time.Now().UTC(), userID, questID,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("error marking quest reward claimed: %w", err)
	}
	return applied, nil
}
