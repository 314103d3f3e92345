package verification

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/chain"
)

// ChainReader is the read-only view of the blockchain the strategies need.
// *chain.Client satisfies it; tests substitute a fake.
type ChainReader interface {
	GetTransactionDetails(ctx context.Context, txHash common.Hash) (*chain.TxDetails, error)
	ReadContract(ctx context.Context, address common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error)
}

// Strategy verifies one submitted proof against a task's configuration.
// Implementations are stateless and safe for concurrent use. All failures
// are terminal for the call; resubmission policy belongs to the caller.
type Strategy interface {
	Verify(ctx context.Context, task types.QuestTask, proof types.VerificationData, user types.User) types.VerificationResult
}
