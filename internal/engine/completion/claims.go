package completion

import (
	"context"

	"github.com/gocql/gocql"

	"github.com/questforge/questforge-backend/internal/engine/attestation"
	"github.com/questforge/questforge-backend/internal/engine/metrics"
	"github.com/questforge/questforge-backend/internal/engine/types"
)

// ClaimResult is the outcome of a successful reward claim
type ClaimResult struct {
	RewardAmount int64
	Attestation  attestation.Result
}

// ClaimReward finalizes the reward for a completed task. The attestation
// gate runs before the claim flips; reward_claimed can only ever become
// true once, enforced by a conditional write.
func (o *Orchestrator) ClaimReward(ctx context.Context, user types.User, completionID gocql.UUID, signature string) (ClaimResult, *types.EngineError) {
	completion, err := o.completions.GetCompletionByID(ctx, completionID)
	if err != nil {
		return ClaimResult{}, types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}
	if completion.UserID != user.UserID {
		return ClaimResult{}, types.NewEngineError(types.CodeForbidden, "completion belongs to another user")
	}
	if completion.SubmissionStatus != types.StatusCompleted {
		return ClaimResult{}, types.NewEngineError(types.CodeMissingCompletion, "task is not completed")
	}

	quest, err := o.quests.GetQuestByID(ctx, completion.QuestID)
	if err != nil {
		return ClaimResult{}, types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}
	task, err := o.quests.GetTaskByID(ctx, completion.TaskID)
	if err != nil {
		return ClaimResult{}, types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}

	progress, err := o.progress.GetQuestProgress(ctx, user.UserID, quest.QuestID)
	if err != nil {
		return ClaimResult{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}

	attested, gateErr := o.gate.EnsureAttested(ctx, user, quest, progress, signature)
	if gateErr != nil {
		metrics.TrackAttestation("rejected")
		return ClaimResult{}, gateErr
	}
	if attested.AlreadyExisted {
		metrics.TrackAttestation("reused")
	} else if attested.UID != "" {
		metrics.TrackAttestation("created")
	}

	applied, err := o.completions.MarkRewardClaimed(ctx, user.UserID, completion.TaskID)
	if err != nil {
		return ClaimResult{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}
	if !applied {
		return ClaimResult{}, types.NewEngineError(types.CodeAlreadyClaimed, "reward already claimed")
	}

	o.notifier.PublishRewardClaimed(ctx, user.UserID, quest.QuestID, task.XPReward)

	return ClaimResult{RewardAmount: task.XPReward, Attestation: attested}, nil
}

// CompleteQuest finalizes a quest once all its tasks are done, passing the
// attestation gate first. Retried requests return the stored UID verbatim.
func (o *Orchestrator) CompleteQuest(ctx context.Context, user types.User, questID int64, signature string) (attestation.Result, *types.EngineError) {
	quest, err := o.quests.GetQuestByID(ctx, questID)
	if err != nil {
		return attestation.Result{}, types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}

	progress, err := o.progress.GetQuestProgress(ctx, user.UserID, questID)
	if err != nil {
		return attestation.Result{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}

	if !progress.IsCompleted {
		// The synchronous recompute may have been missed; check once more
		// against the completion rows before rejecting.
		count, err := o.completions.CountCompletedByQuest(ctx, user.UserID, questID)
		if err != nil || quest.TaskCount == 0 || count < quest.TaskCount {
			return attestation.Result{}, types.NewEngineError(types.CodeMissingCompletion, "quest is not completed yet")
		}
		if err := o.progress.UpdateProgress(ctx, user.UserID, questID, count, true, progress.XPEarned); err != nil {
			return attestation.Result{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
		}
		progress.IsCompleted = true
	}

	attested, gateErr := o.gate.EnsureAttested(ctx, user, quest, progress, signature)
	if gateErr != nil {
		metrics.TrackAttestation("rejected")
		return attestation.Result{}, gateErr
	}
	if attested.AlreadyExisted {
		metrics.TrackAttestation("reused")
	} else if attested.UID != "" {
		metrics.TrackAttestation("created")
	}

	// The quest-level reward flips at most once; a retried request still
	// gets the attestation back but never republishes the reward.
	applied, err := o.progress.MarkRewardClaimed(ctx, user.UserID, questID)
	if err != nil {
		return attestation.Result{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}
	if applied {
		o.notifier.PublishRewardClaimed(ctx, user.UserID, questID, quest.RewardAmount)
	}

	return attested, nil
}

// ReviewCompletion is the admin override path. It bypasses verification
// entirely but still validates its input and never touches reward_claimed.
func (o *Orchestrator) ReviewCompletion(ctx context.Context, reviewer types.User, completionID gocql.UUID, status types.SubmissionStatus, feedback string) *types.EngineError {
	switch status {
	case types.StatusCompleted, types.StatusFailed, types.StatusRetry:
	default:
		return types.NewEngineError(types.CodeInvalidInput, "status must be completed, failed or retry")
	}
	if status != types.StatusCompleted && feedback == "" {
		return types.NewEngineError(types.CodeInvalidInput, "feedback is required when not approving")
	}

	completion, err := o.completions.GetCompletionByID(ctx, completionID)
	if err != nil {
		return types.NewEngineError(types.CodeNotFound, types.MsgDBRecordNotFound)
	}

	if err := o.completions.ReviewCompletion(ctx, completion.UserID, completion.TaskID, status, reviewer.UserID, feedback); err != nil {
		return types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}

	if status == types.StatusCompleted {
		if quest, err := o.quests.GetQuestByID(ctx, completion.QuestID); err == nil {
			if task, err := o.quests.GetTaskByID(ctx, completion.TaskID); err == nil {
				o.notifier.PublishTaskCompleted(ctx, completion.UserID, completion.QuestID, completion.TaskID, task.XPReward)
				o.recomputeProgress(ctx, completion.UserID, quest, task.XPReward)
			}
		}
	}

	return nil
}
