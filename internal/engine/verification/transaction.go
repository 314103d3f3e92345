package verification

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/logging"
)

// expectedEvents maps each on-chain task type to the event that proves it.
// contract_interaction has no event requirement; any successful call into
// the configured contract counts.
var expectedEvents = map[types.TaskType]string{
	types.TaskVendorBuy:     "TokensPurchased",
	types.TaskVendorSell:    "TokensSold",
	types.TaskVendorLightUp: "Lit",
	types.TaskDeployLock:    "NewLock",
}

// TransactionStrategy validates a submitted transaction hash against
// contract identity, sender identity, decoded event arguments and the
// task's threshold rules.
type TransactionStrategy struct {
	chain         ChainReader
	vendorAddress common.Address
	logger        logging.Logger
}

var _ Strategy = (*TransactionStrategy)(nil)

func NewTransactionStrategy(chain ChainReader, vendorAddress common.Address, logger logging.Logger) *TransactionStrategy {
	return &TransactionStrategy{
		chain:         chain,
		vendorAddress: vendorAddress,
		logger:        logger.With("component", "tx_strategy"),
	}
}

func (s *TransactionStrategy) Verify(ctx context.Context, task types.QuestTask, proof types.VerificationData, user types.User) types.VerificationResult {
	// Level-up completion is defined by current on-chain stage, not by a
	// specific transaction. It takes the direct read path and any submitted
	// hash is ignored entirely.
	if task.TaskType == types.TaskVendorLevelUp {
		return s.verifyStage(ctx, task)
	}

	if proof.TransactionHash == "" {
		return types.Failure(types.CodeTxFetchFailed, "transaction hash is required")
	}

	details, err := s.chain.GetTransactionDetails(ctx, common.HexToHash(proof.TransactionHash))
	if err != nil {
		s.logger.Warnf("Receipt fetch failed for tx %s: %v", proof.TransactionHash, err)
		return types.Failure(types.CodeTxFetchFailed, "failed to fetch transaction")
	}

	if details.Receipt.Status != 1 {
		return types.Failure(types.CodeTxFailed, "transaction reverted")
	}

	expectedContract, result := s.expectedContract(task)
	if result != nil {
		return *result
	}

	if details.To == nil || *details.To != expectedContract {
		return types.Failure(types.CodeWrongContract, "transaction was not sent to the expected contract")
	}

	if user.WalletAddress == "" || details.From != common.HexToAddress(user.WalletAddress) {
		return types.Failure(types.CodeSenderMismatch, "transaction sender does not match your wallet")
	}

	eventName, hasEvent := expectedEvents[task.TaskType]
	if !hasEvent {
		// contract_interaction: contract and sender checks are the proof.
		return types.Succeeded(&types.VerificationMetadata{
			BlockNumber: details.Receipt.BlockNumber.Uint64(),
		})
	}

	event, err := findEvent(details.Receipt, expectedContract, eventName)
	if err != nil {
		return types.Failure(types.CodeEventNotFound, fmt.Sprintf("expected %s event not found", eventName))
	}

	if event.User != common.HexToAddress(user.WalletAddress) {
		return types.Failure(types.CodeUserMismatch, "event was emitted for a different user")
	}

	metadata := &types.VerificationMetadata{
		EventName:   event.Name,
		BlockNumber: event.BlockNumber,
		LogIndex:    event.LogIndex,
	}
	if event.BaseTokenAmount != nil {
		metadata.BaseTokenAmount = event.BaseTokenAmount.String()
	}
	if event.QuoteTokenAmount != nil {
		metadata.QuoteTokenAmount = event.QuoteTokenAmount.String()
	}

	if task.TaskConfig.RequiredAmount != "" {
		if result := checkAmount(task.TaskConfig, event); result != nil {
			return *result
		}
	}

	return types.Succeeded(metadata)
}

// verifyStage reads the current stage directly from the vendor contract and
// compares it against the configured target.
func (s *TransactionStrategy) verifyStage(ctx context.Context, task types.QuestTask) types.VerificationResult {
	values, err := s.chain.ReadContract(ctx, s.vendorAddress, stageABI, "currentStage")
	if err != nil {
		s.logger.Warnf("Stage read failed for task %d: %v", task.TaskID, err)
		return types.Failure(types.CodeTxFetchFailed, "failed to read current stage")
	}

	stage, ok := values[0].(*big.Int)
	if !ok {
		return types.Failure(types.CodeTxFetchFailed, "unexpected stage value from contract")
	}

	if stage.Int64() < task.TaskConfig.TargetStage {
		return types.Failure(types.CodeStageTooLow,
			fmt.Sprintf("current stage %d is below target stage %d", stage.Int64(), task.TaskConfig.TargetStage))
	}

	return types.Succeeded(&types.VerificationMetadata{Stage: stage.Int64()})
}

// expectedContract resolves which contract the transaction must have been
// sent to. Vendor task types use the integration's vendor contract; lock and
// manual interaction tasks name their contract in task_config.
func (s *TransactionStrategy) expectedContract(task types.QuestTask) (common.Address, *types.VerificationResult) {
	switch task.TaskType {
	case types.TaskVendorBuy, types.TaskVendorSell, types.TaskVendorLightUp:
		return s.vendorAddress, nil
	case types.TaskDeployLock, types.TaskContractInteraction:
		if !common.IsHexAddress(task.TaskConfig.ContractAddress) {
			result := types.Failure(types.CodeWrongContract, "no expected contract configured for this task")
			return common.Address{}, &result
		}
		return common.HexToAddress(task.TaskConfig.ContractAddress), nil
	default:
		result := types.Failure(types.CodeUnsupportedTaskType, fmt.Sprintf("unsupported task type %s", task.TaskType))
		return common.Address{}, &result
	}
}

// checkAmount compares the decoded amount on the configured token side
// against the required threshold.
func checkAmount(config types.TaskConfig, event *DecodedEvent) *types.VerificationResult {
	required, ok := new(big.Int).SetString(config.RequiredAmount, 10)
	if !ok {
		result := types.Failure(types.CodeAmountTooLow, "invalid required amount configured")
		return &result
	}

	actual := event.BaseTokenAmount
	if config.RequiredToken == "quote" {
		actual = event.QuoteTokenAmount
	}
	if actual == nil || actual.Cmp(required) < 0 {
		result := types.Failure(types.CodeAmountTooLow,
			fmt.Sprintf("amount is below the required %s", config.RequiredAmount))
		return &result
	}
	return nil
}
