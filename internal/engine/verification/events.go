package verification

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Event ABIs for the vendor and lock contracts, exactly as emitted on chain.
// The user-identifying argument is always the first indexed parameter.
const vendorEventsABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "buyer", "type": "address"},
			{"indexed": false, "name": "baseTokenAmount", "type": "uint256"},
			{"indexed": false, "name": "quoteTokenAmount", "type": "uint256"}
		],
		"name": "TokensPurchased",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "seller", "type": "address"},
			{"indexed": false, "name": "baseTokenAmount", "type": "uint256"},
			{"indexed": false, "name": "quoteTokenAmount", "type": "uint256"}
		],
		"name": "TokensSold",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "user", "type": "address"}
		],
		"name": "Lit",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "lockOwner", "type": "address"},
			{"indexed": true, "name": "newLockAddress", "type": "address"}
		],
		"name": "NewLock",
		"type": "event"
	}
]`

// Minimal ABI for the direct stage read on the vendor contract
const vendorStageABI = `[
	{
		"inputs": [],
		"name": "currentStage",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var (
	eventsABI abi.ABI
	stageABI  abi.ABI

	eventTopics map[common.Hash]string
)

func init() {
	var err error
	eventsABI, err = abi.JSON(strings.NewReader(vendorEventsABI))
	if err != nil {
		panic("failed to parse vendor events ABI: " + err.Error())
	}
	stageABI, err = abi.JSON(strings.NewReader(vendorStageABI))
	if err != nil {
		panic("failed to parse vendor stage ABI: " + err.Error())
	}

	eventTopics = map[common.Hash]string{
		crypto.Keccak256Hash([]byte("TokensPurchased(address,uint256,uint256)")): "TokensPurchased",
		crypto.Keccak256Hash([]byte("TokensSold(address,uint256,uint256)")):      "TokensSold",
		crypto.Keccak256Hash([]byte("Lit(address)")):                             "Lit",
		crypto.Keccak256Hash([]byte("NewLock(address,address)")):                 "NewLock",
	}
}

// DecodedEvent is one recognized log decoded into its named arguments
type DecodedEvent struct {
	Name             string
	User             common.Address
	BaseTokenAmount  *big.Int
	QuoteTokenAmount *big.Int
	BlockNumber      uint64
	LogIndex         uint
}

// findEvent scans the receipt logs emitted by the given contract for the
// expected event and decodes it. Logs from other contracts are ignored.
func findEvent(receipt *ethtypes.Receipt, contract common.Address, eventName string) (*DecodedEvent, error) {
	for _, log := range receipt.Logs {
		if log.Address != contract || len(log.Topics) == 0 {
			continue
		}
		name, ok := eventTopics[log.Topics[0]]
		if !ok || name != eventName {
			continue
		}
		return decodeEvent(log, name)
	}
	return nil, fmt.Errorf("event %s not found in transaction logs", eventName)
}

func decodeEvent(log *ethtypes.Log, name string) (*DecodedEvent, error) {
	if len(log.Topics) < 2 {
		return nil, fmt.Errorf("missing indexed user address in %s topics", name)
	}

	decoded := &DecodedEvent{
		Name:        name,
		User:        common.BytesToAddress(log.Topics[1].Bytes()),
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
	}

	switch name {
	case "TokensPurchased", "TokensSold":
		var amounts struct {
			BaseTokenAmount  *big.Int
			QuoteTokenAmount *big.Int
		}
		if err := eventsABI.UnpackIntoInterface(&amounts, name, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s log data: %w", name, err)
		}
		decoded.BaseTokenAmount = amounts.BaseTokenAmount
		decoded.QuoteTokenAmount = amounts.QuoteTokenAmount
	case "Lit", "NewLock":
		// All arguments are indexed; nothing in the data segment.
	default:
		return nil, fmt.Errorf("unknown event %s", name)
	}

	return decoded, nil
}
