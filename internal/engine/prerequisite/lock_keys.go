package prerequisite

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/questforge/questforge-backend/internal/engine/verification"
)

// Minimal ABI for the lock contract's key validity check
const lockKeyABI = `[
	{
		"inputs": [{"name": "_keyOwner", "type": "address"}],
		"name": "getHasValidKey",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var parsedLockKeyABI abi.ABI

func init() {
	var err error
	parsedLockKeyABI, err = abi.JSON(strings.NewReader(lockKeyABI))
	if err != nil {
		panic("failed to parse lock key ABI: " + err.Error())
	}
}

// LockKeyChecker answers key ownership with a getHasValidKey read against
// the lock contract.
type LockKeyChecker struct {
	chain verification.ChainReader
}

var _ KeyOwnershipChecker = (*LockKeyChecker)(nil)

func NewLockKeyChecker(chain verification.ChainReader) *LockKeyChecker {
	return &LockKeyChecker{chain: chain}
}

func (c *LockKeyChecker) HasValidKey(ctx context.Context, lockAddress, walletAddress string) (bool, error) {
	if !common.IsHexAddress(lockAddress) {
		return false, fmt.Errorf("invalid lock address %q", lockAddress)
	}

	values, err := c.chain.ReadContract(ctx, common.HexToAddress(lockAddress), parsedLockKeyABI,
		"getHasValidKey", common.HexToAddress(walletAddress))
	if err != nil {
		return false, err
	}

	hasKey, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected getHasValidKey return value")
	}
	return hasKey, nil
}
