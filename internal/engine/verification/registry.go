package verification

import (
	"context"
	"fmt"

	"github.com/questforge/questforge-backend/internal/engine/types"
)

// onChainTaskTypes are task types that are only ever satisfied by blockchain
// verification, regardless of what verification_method says on the task row.
// A misconfigured "automatic" method must never bypass the chain checks.
var onChainTaskTypes = map[types.TaskType]bool{
	types.TaskVendorBuy:           true,
	types.TaskVendorSell:          true,
	types.TaskVendorLightUp:       true,
	types.TaskVendorLevelUp:       true,
	types.TaskDeployLock:          true,
	types.TaskContractInteraction: true,
}

// submissionTaskTypes complete without on-chain proof
var submissionTaskTypes = map[types.TaskType]bool{
	types.TaskURLSubmission:  true,
	types.TaskTextSubmission: true,
	types.TaskFileUpload:     true,
}

// AutomaticStrategy passes any submission through; used for task types whose
// proof is reviewed out of band or not at all.
type AutomaticStrategy struct{}

var _ Strategy = (*AutomaticStrategy)(nil)

func (s *AutomaticStrategy) Verify(ctx context.Context, task types.QuestTask, proof types.VerificationData, user types.User) types.VerificationResult {
	return types.Succeeded(nil)
}

// Registry resolves a (taskType, verificationMethod) pair to the strategy
// that must verify it. It holds no state and is safe to share across
// concurrent requests.
type Registry struct {
	transaction Strategy
	automatic   Strategy
}

func NewRegistry(transaction Strategy) *Registry {
	return &Registry{
		transaction: transaction,
		automatic:   &AutomaticStrategy{},
	}
}

// EffectiveMethod returns the verification method actually enforced for the
// task. On-chain task types force blockchain verification.
func EffectiveMethod(task types.QuestTask) types.VerificationMethod {
	if onChainTaskTypes[task.TaskType] {
		return types.VerificationBlockchain
	}
	return task.VerificationMethod
}

// Resolve returns the strategy for the task, applying the forced-blockchain
// override first. Unknown task types are rejected.
func (r *Registry) Resolve(task types.QuestTask) (Strategy, error) {
	if onChainTaskTypes[task.TaskType] {
		return r.transaction, nil
	}

	if !submissionTaskTypes[task.TaskType] {
		return nil, fmt.Errorf("unsupported task type %s", task.TaskType)
	}

	switch task.VerificationMethod {
	case types.VerificationBlockchain:
		// The transaction strategy has no contract mapping for submission
		// task types, so this pairing can never verify.
		return nil, fmt.Errorf("task type %s cannot use blockchain verification", task.TaskType)
	case types.VerificationAutomatic, types.VerificationAdminReview, "":
		return r.automatic, nil
	default:
		return nil, fmt.Errorf("unsupported verification method %s", task.VerificationMethod)
	}
}
