package prerequisite

import (
	"context"

	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/logging"
)

// ProgressReader is the slice of the store the checker needs
type ProgressReader interface {
	GetQuestProgress(ctx context.Context, userID, questID int64) (types.UserQuestProgress, error)
}

// KeyOwnershipChecker answers whether a wallet holds a valid key for a lock
type KeyOwnershipChecker interface {
	HasValidKey(ctx context.Context, lockAddress, walletAddress string) (bool, error)
}

// Result is the admission decision for one quest
type Result struct {
	CanProceed bool
	State      types.PrerequisiteState
	Reason     string
}

// Checker decides whether a user may progress a quest given prior-quest
// completion and on-chain key ownership. Any persistence or chain error is
// a hard block; the checker never fails open.
type Checker struct {
	progress ProgressReader
	keys     KeyOwnershipChecker
	logger   logging.Logger
}

func NewChecker(progress ProgressReader, keys KeyOwnershipChecker, logger logging.Logger) *Checker {
	return &Checker{
		progress: progress,
		keys:     keys,
		logger:   logger.With("component", "prerequisite_checker"),
	}
}

func (c *Checker) Check(ctx context.Context, user types.User, quest types.Quest) Result {
	if quest.PrerequisiteQuestID == 0 && !quest.RequiresPrerequisiteKey {
		return Result{CanProceed: true, State: types.PrerequisiteNone}
	}

	if quest.PrerequisiteQuestID != 0 {
		progress, err := c.progress.GetQuestProgress(ctx, user.UserID, quest.PrerequisiteQuestID)
		if err != nil {
			c.logger.Warnf("Prerequisite progress lookup failed for user %d quest %d: %v",
				user.UserID, quest.PrerequisiteQuestID, err)
			return Result{State: types.PrerequisiteMissingCompletion, Reason: types.MsgPrerequisiteNotCompleted}
		}
		if !progress.IsCompleted {
			return Result{State: types.PrerequisiteMissingCompletion, Reason: types.MsgPrerequisiteNotCompleted}
		}
	}

	if quest.RequiresPrerequisiteKey {
		if user.WalletAddress == "" {
			return Result{State: types.PrerequisiteMissingKey, Reason: types.MsgWalletAddressRequired}
		}
		hasKey, err := c.keys.HasValidKey(ctx, quest.PrerequisiteLockAddress, user.WalletAddress)
		if err != nil {
			c.logger.Warnf("Key ownership check failed for user %d lock %s: %v",
				user.UserID, quest.PrerequisiteLockAddress, err)
			return Result{State: types.PrerequisiteMissingKey, Reason: types.MsgKeyVerificationFailed}
		}
		if !hasKey {
			return Result{State: types.PrerequisiteMissingKey, Reason: types.MsgKeyVerificationFailed}
		}
	}

	return Result{CanProceed: true, State: types.PrerequisiteOK}
}
