package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/questforge/questforge-backend/internal/engine/repository/queries"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/database"
)

type QuestRepository interface {
	GetQuestByID(ctx context.Context, questID int64) (types.Quest, error)
	GetTaskByID(ctx context.Context, taskID int64) (types.QuestTask, error)
	GetTasksByQuestID(ctx context.Context, questID int64) ([]types.QuestTask, error)
}

type questRepository struct {
	db *database.Connection
}

func NewQuestRepository(db *database.Connection) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) GetQuestByID(ctx context.Context, questID int64) (types.Quest, error) {
	var quest types.Quest
	err := r.db.Session().Query(queries.GetQuestByIDQuery, questID).WithContext(ctx).Scan(
		&quest.QuestID, &quest.Title, &quest.TaskCount, &quest.RewardAmount,
		&quest.PrerequisiteQuestID, &quest.PrerequisiteLockAddress,
		&quest.RequiresPrerequisiteKey, &quest.CreatedAt,
	)
	if err != nil {
		return types.Quest{}, fmt.Errorf("error getting quest %d: %w", questID, err)
	}
	return quest, nil
}

func (r *questRepository) GetTaskByID(ctx context.Context, taskID int64) (types.QuestTask, error) {
	var task types.QuestTask
	var configJSON string
	err := r.db.Session().Query(queries.GetTaskByIDQuery, taskID).WithContext(ctx).Scan(
		&task.TaskID, &task.QuestID, &task.Title, &task.TaskType, &task.VerificationMethod,
		&configJSON, &task.RequiresAdminReview, &task.InputRequired, &task.XPReward, &task.CreatedAt,
	)
	if err != nil {
		return types.QuestTask{}, fmt.Errorf("error getting task %d: %w", taskID, err)
	}
	if configJSON != "" {
		if err := json.Unmarshal([]byte(configJSON), &task.TaskConfig); err != nil {
			return types.QuestTask{}, fmt.Errorf("error decoding task config for task %d: %w", taskID, err)
		}
	}
	return task, nil
}

func (r *questRepository) GetTasksByQuestID(ctx context.Context, questID int64) ([]types.QuestTask, error) {
	iter := r.db.Session().Query(queries.GetTasksByQuestIDQuery, questID).WithContext(ctx).Iter()

	var tasks []types.QuestTask
	var task types.QuestTask
	var configJSON string

	for iter.Scan(
		&task.TaskID, &task.QuestID, &task.Title, &task.TaskType, &task.VerificationMethod,
		&configJSON, &task.RequiresAdminReview, &task.InputRequired, &task.XPReward, &task.CreatedAt,
	) {
		task.TaskConfig = types.TaskConfig{}
		if configJSON != "" {
			if err := json.Unmarshal([]byte(configJSON), &task.TaskConfig); err != nil {
				continue
			}
		}
		tasks = append(tasks, task)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("error getting tasks for quest %d: %w", questID, err)
	}
	return tasks, nil
}
