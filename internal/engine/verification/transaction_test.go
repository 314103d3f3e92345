package verification

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/chain"
	"github.com/questforge/questforge-backend/pkg/logging"
)

var (
	vendorAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	lockAddr   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	userAddr   = common.HexToAddress("0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa")
	otherAddr  = common.HexToAddress("0xBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBb")

	testTxHash = "0x99999999999999999999999999999999999999999999999999999999999999aa"
)

type fakeChainReader struct {
	details    *chain.TxDetails
	detailsErr error
	stage      *big.Int
	stageErr   error
}

func (f *fakeChainReader) GetTransactionDetails(ctx context.Context, txHash common.Hash) (*chain.TxDetails, error) {
	return f.details, f.detailsErr
}

func (f *fakeChainReader) ReadContract(ctx context.Context, address common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if f.stageErr != nil {
		return nil, f.stageErr
	}
	return []interface{}{f.stage}, nil
}

func testUser() types.User {
	return types.User{UserID: 42, WalletAddress: userAddr.Hex()}
}

func purchaseLog(t *testing.T, contract, buyer common.Address, base, quote *big.Int) *ethtypes.Log {
	t.Helper()
	data, err := eventsABI.Events["TokensPurchased"].Inputs.NonIndexed().Pack(base, quote)
	require.NoError(t, err)
	return &ethtypes.Log{
		Address: contract,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("TokensPurchased(address,uint256,uint256)")),
			common.BytesToHash(buyer.Bytes()),
		},
		Data:        data,
		BlockNumber: 1200,
		Index:       3,
	}
}

func successfulDetails(to common.Address, from common.Address, logs ...*ethtypes.Log) *chain.TxDetails {
	return &chain.TxDetails{
		Receipt: &ethtypes.Receipt{
			Status:      ethtypes.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(1200),
			Logs:        logs,
		},
		From: from,
		To:   &to,
	}
}

func TestTransactionStrategyVerify(t *testing.T) {
	tests := []struct {
		name         string
		task         types.QuestTask
		proof        types.VerificationData
		chain        *fakeChainReader
		expectedOK   bool
		expectedCode types.ErrorCode
	}{
		{
			name:         "missing transaction hash",
			task:         types.QuestTask{TaskType: types.TaskVendorBuy},
			proof:        types.VerificationData{},
			chain:        &fakeChainReader{},
			expectedCode: types.CodeTxFetchFailed,
		},
		{
			name:         "receipt fetch fails",
			task:         types.QuestTask{TaskType: types.TaskVendorBuy},
			proof:        types.VerificationData{TransactionHash: testTxHash},
			chain:        &fakeChainReader{detailsErr: assert.AnError},
			expectedCode: types.CodeTxFetchFailed,
		},
		{
			name:  "reverted transaction",
			task:  types.QuestTask{TaskType: types.TaskVendorBuy},
			proof: types.VerificationData{TransactionHash: testTxHash},
			chain: &fakeChainReader{details: &chain.TxDetails{
				Receipt: &ethtypes.Receipt{Status: ethtypes.ReceiptStatusFailed},
				From:    userAddr,
				To:      &vendorAddr,
			}},
			expectedCode: types.CodeTxFailed,
		},
		{
			name:         "wrong contract",
			task:         types.QuestTask{TaskType: types.TaskVendorBuy},
			proof:        types.VerificationData{TransactionHash: testTxHash},
			chain:        &fakeChainReader{details: successfulDetails(otherAddr, userAddr)},
			expectedCode: types.CodeWrongContract,
		},
		{
			name:         "sender mismatch",
			task:         types.QuestTask{TaskType: types.TaskVendorBuy},
			proof:        types.VerificationData{TransactionHash: testTxHash},
			chain:        &fakeChainReader{details: successfulDetails(vendorAddr, otherAddr)},
			expectedCode: types.CodeSenderMismatch,
		},
		{
			name:         "expected event missing",
			task:         types.QuestTask{TaskType: types.TaskVendorBuy},
			proof:        types.VerificationData{TransactionHash: testTxHash},
			chain:        &fakeChainReader{details: successfulDetails(vendorAddr, userAddr)},
			expectedCode: types.CodeEventNotFound,
		},
		{
			name:  "event emitted for another user",
			task:  types.QuestTask{TaskType: types.TaskVendorBuy},
			proof: types.VerificationData{TransactionHash: testTxHash},
			chain: &fakeChainReader{details: successfulDetails(vendorAddr, userAddr,
				purchaseLog(t, vendorAddr, otherAddr, big.NewInt(100), big.NewInt(50)))},
			expectedCode: types.CodeUserMismatch,
		},
		{
			name: "amount below threshold",
			task: types.QuestTask{
				TaskType:   types.TaskVendorBuy,
				TaskConfig: types.TaskConfig{RequiredAmount: "1000"},
			},
			proof: types.VerificationData{TransactionHash: testTxHash},
			chain: &fakeChainReader{details: successfulDetails(vendorAddr, userAddr,
				purchaseLog(t, vendorAddr, userAddr, big.NewInt(100), big.NewInt(50)))},
			expectedCode: types.CodeAmountTooLow,
		},
		{
			name: "quote side amount accepted",
			task: types.QuestTask{
				TaskType:   types.TaskVendorBuy,
				TaskConfig: types.TaskConfig{RequiredAmount: "50", RequiredToken: "quote"},
			},
			proof: types.VerificationData{TransactionHash: testTxHash},
			chain: &fakeChainReader{details: successfulDetails(vendorAddr, userAddr,
				purchaseLog(t, vendorAddr, userAddr, big.NewInt(10), big.NewInt(75)))},
			expectedOK: true,
		},
		{
			name: "successful purchase",
			task: types.QuestTask{
				TaskType:   types.TaskVendorBuy,
				TaskConfig: types.TaskConfig{RequiredAmount: "100"},
			},
			proof: types.VerificationData{TransactionHash: testTxHash},
			chain: &fakeChainReader{details: successfulDetails(vendorAddr, userAddr,
				purchaseLog(t, vendorAddr, userAddr, big.NewInt(250), big.NewInt(50)))},
			expectedOK: true,
		},
		{
			name: "contract interaction needs no event",
			task: types.QuestTask{
				TaskType:   types.TaskContractInteraction,
				TaskConfig: types.TaskConfig{ContractAddress: lockAddr.Hex()},
			},
			proof:      types.VerificationData{TransactionHash: testTxHash},
			chain:      &fakeChainReader{details: successfulDetails(lockAddr, userAddr)},
			expectedOK: true,
		},
		{
			name: "contract interaction without configured contract",
			task: types.QuestTask{
				TaskType: types.TaskContractInteraction,
			},
			proof:        types.VerificationData{TransactionHash: testTxHash},
			chain:        &fakeChainReader{details: successfulDetails(lockAddr, userAddr)},
			expectedCode: types.CodeWrongContract,
		},
		{
			name: "level up below target stage",
			task: types.QuestTask{
				TaskType:   types.TaskVendorLevelUp,
				TaskConfig: types.TaskConfig{TargetStage: 5},
			},
			chain:        &fakeChainReader{stage: big.NewInt(3)},
			expectedCode: types.CodeStageTooLow,
		},
		{
			name: "level up reaches target stage",
			task: types.QuestTask{
				TaskType:   types.TaskVendorLevelUp,
				TaskConfig: types.TaskConfig{TargetStage: 5},
			},
			chain:      &fakeChainReader{stage: big.NewInt(7)},
			expectedOK: true,
		},
		{
			name: "level up stage read fails",
			task: types.QuestTask{
				TaskType:   types.TaskVendorLevelUp,
				TaskConfig: types.TaskConfig{TargetStage: 5},
			},
			chain:        &fakeChainReader{stageErr: assert.AnError},
			expectedCode: types.CodeTxFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewTransactionStrategy(tt.chain, vendorAddr, &logging.NoopLogger{})
			result := strategy.Verify(context.Background(), tt.task, tt.proof, testUser())

			assert.Equal(t, tt.expectedOK, result.Success)
			if !tt.expectedOK {
				assert.Equal(t, tt.expectedCode, result.Code)
				assert.NotEmpty(t, result.Error)
			}
		})
	}
}

func TestTransactionStrategyMetadata(t *testing.T) {
	reader := &fakeChainReader{details: successfulDetails(vendorAddr, userAddr,
		purchaseLog(t, vendorAddr, userAddr, big.NewInt(250), big.NewInt(50)))}
	strategy := NewTransactionStrategy(reader, vendorAddr, &logging.NoopLogger{})

	task := types.QuestTask{TaskType: types.TaskVendorBuy}
	result := strategy.Verify(context.Background(), task, types.VerificationData{TransactionHash: testTxHash}, testUser())

	require.True(t, result.Success)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "TokensPurchased", result.Metadata.EventName)
	assert.Equal(t, "250", result.Metadata.BaseTokenAmount)
	assert.Equal(t, "50", result.Metadata.QuoteTokenAmount)
	assert.Equal(t, uint64(1200), result.Metadata.BlockNumber)
	assert.Equal(t, uint(3), result.Metadata.LogIndex)
}

func TestTransactionStrategyIgnoresForeignLogs(t *testing.T) {
	// A matching event emitted by a different contract must not count.
	reader := &fakeChainReader{details: successfulDetails(vendorAddr, userAddr,
		purchaseLog(t, otherAddr, userAddr, big.NewInt(250), big.NewInt(50)))}
	strategy := NewTransactionStrategy(reader, vendorAddr, &logging.NoopLogger{})

	task := types.QuestTask{TaskType: types.TaskVendorBuy}
	result := strategy.Verify(context.Background(), task, types.VerificationData{TransactionHash: testTxHash}, testUser())

	assert.False(t, result.Success)
	assert.Equal(t, types.CodeEventNotFound, result.Code)
}
