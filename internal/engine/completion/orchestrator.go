package completion

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"github.com/questforge/questforge-backend/internal/engine/attestation"
	"github.com/questforge/questforge-backend/internal/engine/metrics"
	"github.com/questforge/questforge-backend/internal/engine/prerequisite"
	"github.com/questforge/questforge-backend/internal/engine/repository"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/internal/engine/verification"
	"github.com/questforge/questforge-backend/pkg/logging"
)

// Notifier publishes completion side effects. Delivery is best-effort and
// happens outside the engine's transactional boundary.
type Notifier interface {
	PublishTaskCompleted(ctx context.Context, userID, questID, taskID, xpAwarded int64)
	PublishQuestCompleted(ctx context.Context, userID, questID int64)
	PublishRewardClaimed(ctx context.Context, userID, questID, rewardAmount int64)
}

// Orchestrator sequences prerequisite check, verification, replay claim,
// persistence and side effects for every completion attempt.
type Orchestrator struct {
	quests      repository.QuestRepository
	completions repository.CompletionRepository
	progress    repository.ProgressRepository
	replay      repository.ReplayRepository
	registry    *verification.Registry
	prereq      *prerequisite.Checker
	gate        *attestation.Gate
	notifier    Notifier
	logger      logging.Logger
}

func NewOrchestrator(
	quests repository.QuestRepository,
	completions repository.CompletionRepository,
	progress repository.ProgressRepository,
	replay repository.ReplayRepository,
	registry *verification.Registry,
	prereq *prerequisite.Checker,
	gate *attestation.Gate,
	notifier Notifier,
	logger logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		quests:      quests,
		completions: completions,
		progress:    progress,
		replay:      replay,
		registry:    registry,
		prereq:      prereq,
		gate:        gate,
		notifier:    notifier,
		logger:      logger.With("component", "orchestrator"),
	}
}

// CompleteTask runs the full completion sequence for one proof submission.
func (o *Orchestrator) CompleteTask(ctx context.Context, user types.User, questID, taskID int64, proof types.VerificationData) (types.UserTaskCompletion, *types.EngineError) {
	task, err := o.quests.GetTaskByID(ctx, taskID)
	if err != nil {
		return types.UserTaskCompletion{}, types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}
	if task.QuestID != questID {
		return types.UserTaskCompletion{}, types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}

	quest, err := o.quests.GetQuestByID(ctx, questID)
	if err != nil {
		return types.UserTaskCompletion{}, types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}

	// A completed row is terminal. Resubmitting a fresh proof against it
	// returns the stored row untouched: no verification, no replay claim,
	// no side effects.
	var prior *types.UserTaskCompletion
	if existing, err := o.completions.GetCompletion(ctx, user.UserID, taskID); err == nil {
		if existing.SubmissionStatus == types.StatusCompleted {
			return existing, nil
		}
		prior = &existing
	} else if !errors.Is(err, gocql.ErrNotFound) {
		return types.UserTaskCompletion{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}

	if result := o.prereq.Check(ctx, user, quest); !result.CanProceed {
		code := types.CodeMissingCompletion
		if result.State == types.PrerequisiteMissingKey {
			code = types.CodeMissingKey
		}
		return types.UserTaskCompletion{}, types.NewEngineError(code, result.Reason)
	}

	strategy, err := o.registry.Resolve(task)
	if err != nil {
		return types.UserTaskCompletion{}, types.NewEngineError(types.CodeUnsupportedTaskType, err.Error())
	}

	verifyStart := time.Now()
	result := strategy.Verify(ctx, task, proof, user)
	metrics.TrackVerification(string(task.TaskType), string(result.Code), time.Since(verifyStart))

	if !result.Success {
		// Failed verification is recorded so the attempt is visible; the row
		// re-enters pending on the next submission.
		o.recordFailedAttempt(ctx, user, task, proof, prior)
		return types.UserTaskCompletion{}, types.NewEngineError(result.Code, result.Error)
	}

	// Replay claim happens strictly after verification success. Rejection
	// aborts without creating or mutating any completion row.
	if consumesTransactionHash(task) && proof.TransactionHash != "" {
		accepted, err := o.replay.Claim(ctx, proof.TransactionHash, user.UserID, task.TaskID)
		if err != nil {
			return types.UserTaskCompletion{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
		}
		if !accepted {
			metrics.ReplayRejectionsTotal.Inc()
			return types.UserTaskCompletion{}, types.NewEngineError(types.CodeReplayRejected, types.MsgTransactionAlreadyUsed)
		}
	}

	completion, engineErr := o.persistCompletion(ctx, user, task, proof, result.Metadata, prior)
	if engineErr != nil {
		return types.UserTaskCompletion{}, engineErr
	}

	// Side effects are best-effort; failures are logged, never surfaced.
	o.notifier.PublishTaskCompleted(ctx, user.UserID, quest.QuestID, task.TaskID, task.XPReward)
	o.recomputeProgress(ctx, user.UserID, quest, task.XPReward)

	return completion, nil
}

// consumesTransactionHash reports whether the stored proof for this task
// type is the transaction itself. Stage-based completions never consume a
// hash: their record of truth is on-chain state.
func consumesTransactionHash(task types.QuestTask) bool {
	if verification.EffectiveMethod(task) != types.VerificationBlockchain {
		return false
	}
	return task.TaskType != types.TaskVendorLevelUp
}

func (o *Orchestrator) recordFailedAttempt(ctx context.Context, user types.User, task types.QuestTask, proof types.VerificationData, prior *types.UserTaskCompletion) {
	if prior == nil {
		// First attempt: create the row as failed
		now := time.Now().UTC()
		attempt := types.UserTaskCompletion{
			CompletionID:     gocql.TimeUUID(),
			UserID:           user.UserID,
			QuestID:          task.QuestID,
			TaskID:           task.TaskID,
			SubmissionStatus: types.StatusFailed,
			VerificationData: proof,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := o.completions.UpsertCompletion(ctx, attempt); err != nil {
			o.logger.Errorf("Failed to record failed attempt for user %d task %d: %v", user.UserID, task.TaskID, err)
		}
		return
	}

	if err := o.completions.UpdateCompletionStatus(ctx, user.UserID, task.TaskID, types.StatusFailed, proof); err != nil {
		o.logger.Errorf("Failed to update failed attempt for user %d task %d: %v", user.UserID, task.TaskID, err)
	}
}

func (o *Orchestrator) persistCompletion(ctx context.Context, user types.User, task types.QuestTask, proof types.VerificationData, metadata *types.VerificationMetadata, prior *types.UserTaskCompletion) (types.UserTaskCompletion, *types.EngineError) {
	data := proof
	if metadata != nil {
		data.EventName = metadata.EventName
		data.BaseTokenAmount = metadata.BaseTokenAmount
		data.QuoteTokenAmount = metadata.QuoteTokenAmount
		data.Stage = metadata.Stage
		data.BlockNumber = metadata.BlockNumber
		data.LogIndex = metadata.LogIndex
	}
	// A stale hash must never be displayed as the proof of a stage-based
	// completion.
	if task.TaskType == types.TaskVendorLevelUp {
		data.TransactionHash = ""
	}

	now := time.Now().UTC()
	if prior != nil {
		if err := o.completions.UpdateCompletionStatus(ctx, user.UserID, task.TaskID, types.StatusCompleted, data); err != nil {
			return types.UserTaskCompletion{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
		}
		updated := *prior
		updated.SubmissionStatus = types.StatusCompleted
		updated.VerificationData = data
		updated.UpdatedAt = now
		return updated, nil
	}

	completion := types.UserTaskCompletion{
		CompletionID:     gocql.TimeUUID(),
		UserID:           user.UserID,
		QuestID:          task.QuestID,
		TaskID:           task.TaskID,
		SubmissionStatus: types.StatusCompleted,
		VerificationData: data,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := o.completions.UpsertCompletion(ctx, completion); err != nil {
		return types.UserTaskCompletion{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}
	return completion, nil
}

// recomputeProgress refreshes the per-quest aggregate after a completion.
// Errors are logged only; the cron reconciler repairs missed updates.
func (o *Orchestrator) recomputeProgress(ctx context.Context, userID int64, quest types.Quest, xpAwarded int64) {
	count, err := o.completions.CountCompletedByQuest(ctx, userID, quest.QuestID)
	if err != nil {
		o.logger.Warnf("Progress recompute failed for user %d quest %d: %v", userID, quest.QuestID, err)
		return
	}

	progress, err := o.progress.GetQuestProgress(ctx, userID, quest.QuestID)
	if err != nil {
		o.logger.Warnf("Progress read failed for user %d quest %d: %v", userID, quest.QuestID, err)
		return
	}

	isCompleted := quest.TaskCount > 0 && count >= quest.TaskCount
	if err := o.progress.UpdateProgress(ctx, userID, quest.QuestID, count, isCompleted, progress.XPEarned+xpAwarded); err != nil {
		o.logger.Warnf("Progress update failed for user %d quest %d: %v", userID, quest.QuestID, err)
		return
	}

	if isCompleted && !progress.IsCompleted {
		o.notifier.PublishQuestCompleted(ctx, userID, quest.QuestID)
	}
}
