package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/questforge/questforge-backend/internal/engine/repository/queries"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/database"
)

type CompletionRepository interface {
	GetCompletion(ctx context.Context, userID, taskID int64) (types.UserTaskCompletion, error)
	GetCompletionByID(ctx context.Context, completionID gocql.UUID) (types.UserTaskCompletion, error)
	UpsertCompletion(ctx context.Context, completion types.UserTaskCompletion) error
	UpdateCompletionStatus(ctx context.Context, userID, taskID int64, status types.SubmissionStatus, data types.VerificationData) error
	ReviewCompletion(ctx context.Context, userID, taskID int64, status types.SubmissionStatus, reviewedBy int64, feedback string) error
	MarkRewardClaimed(ctx context.Context, userID, taskID int64) (bool, error)
	CountCompletedByQuest(ctx context.Context, userID, questID int64) (int, error)
}

type completionRepository struct {
	db *database.Connection
}

func NewCompletionRepository(db *database.Connection) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) GetCompletion(ctx context.Context, userID, taskID int64) (types.UserTaskCompletion, error) {
	return r.scanCompletion(r.db.Session().Query(queries.GetCompletionQuery, userID, taskID).WithContext(ctx))
}

func (r *completionRepository) GetCompletionByID(ctx context.Context, completionID gocql.UUID) (types.UserTaskCompletion, error) {
	return r.scanCompletion(r.db.Session().Query(queries.GetCompletionByIDQuery, completionID).WithContext(ctx))
}

func (r *completionRepository) scanCompletion(q *gocql.Query) (types.UserTaskCompletion, error) {
	var completion types.UserTaskCompletion
	var dataJSON string
	err := q.Scan(
		&completion.CompletionID, &completion.UserID, &completion.QuestID, &completion.TaskID,
		&completion.SubmissionStatus, &dataJSON, &completion.RewardClaimed,
		&completion.ReviewedBy, &completion.ReviewedAt, &completion.AdminFeedback,
		&completion.CreatedAt, &completion.UpdatedAt,
	)
	if err != nil {
		return types.UserTaskCompletion{}, fmt.Errorf("error getting completion: %w", err)
	}
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &completion.VerificationData); err != nil {
			return types.UserTaskCompletion{}, fmt.Errorf("error decoding verification data: %w", err)
		}
	}
	return completion, nil
}

func (r *completionRepository) UpsertCompletion(ctx context.Context, completion types.UserTaskCompletion) error {
	dataJSON, err := json.Marshal(completion.VerificationData)
	if err != nil {
		return fmt.Errorf("error encoding verification data: %w", err)
	}
	err = r.db.Session().Query(queries.UpsertCompletionQuery,
		completion.CompletionID, completion.UserID, completion.QuestID, completion.TaskID,
		completion.SubmissionStatus, string(dataJSON), completion.RewardClaimed,
		completion.CreatedAt, completion.UpdatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("error upserting completion: %w", err)
	}
	return nil
}

func (r *completionRepository) UpdateCompletionStatus(ctx context.Context, userID, taskID int64, status types.SubmissionStatus, data types.VerificationData) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error encoding verification data: %w", err)
	}
	err = r.db.Session().Query(queries.UpdateCompletionStatusQuery,
		status, string(dataJSON), time.Now().UTC(), userID, taskID,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("error updating completion status: %w", err)
	}
	return nil
}

func (r *completionRepository) ReviewCompletion(ctx context.Context, userID, taskID int64, status types.SubmissionStatus, reviewedBy int64, feedback string) error {
	now := time.Now().UTC()
	err := r.db.Session().Query(queries.ReviewCompletionQuery,
		status, reviewedBy, now, feedback, now, userID, taskID,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("error reviewing completion: %w", err)
	}
	return nil
}

// MarkRewardClaimed flips reward_claimed with a lightweight transaction so
// only one of two racing claims applies.
func (r *completionRepository) MarkRewardClaimed(ctx context.Context, userID, taskID int64) (bool, error) {
	applied, err := r.db.Session().Query(queries.MarkCompletionRewardClaimedQuery,
		time.Now().UTC(), userID, taskID,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("error marking reward claimed: %w", err)
	}
	return applied, nil
}

func (r *completionRepository) CountCompletedByQuest(ctx context.Context, userID, questID int64) (int, error) {
	var count int
	err := r.db.Session().Query(queries.CountCompletedByQuestQuery, userID, questID).WithContext(ctx).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting completed tasks: %w", err)
	}
	return count, nil
}
