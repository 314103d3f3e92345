package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/questforge/questforge-backend/pkg/logging"
	"github.com/questforge/questforge-backend/pkg/retry"
)

// TxDetails bundles a receipt with the sender and target recovered from the
// underlying transaction. Receipts alone do not carry from/to.
type TxDetails struct {
	Receipt *ethtypes.Receipt
	From    common.Address
	To      *common.Address
}

// Client wraps an ethclient connection with retry logic for the read-only
// queries the verification engine performs.
type Client struct {
	eth         *ethclient.Client
	chainID     *big.Int
	retryConfig *retry.RetryConfig
	logger      logging.Logger
}

func NewClient(ctx context.Context, rpcURL string, logger logging.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &Client{
		eth:         eth,
		chainID:     chainID,
		retryConfig: retry.DefaultRetryConfig(),
		logger:      logger.With("component", "chain_client"),
	}, nil
}

// GetTransactionDetails fetches the receipt for the given hash and recovers
// the sender and target address from the transaction itself. Transient RPC
// errors are retried before an error is returned.
func (c *Client) GetTransactionDetails(ctx context.Context, txHash common.Hash) (*TxDetails, error) {
	receipt, err := retry.Retry(ctx, func() (*ethtypes.Receipt, error) {
		return c.eth.TransactionReceipt(ctx, txHash)
	}, c.retryConfig, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	tx, err := retry.Retry(ctx, func() (*ethtypes.Transaction, error) {
		tx, pending, err := c.eth.TransactionByHash(ctx, txHash)
		if err != nil {
			return nil, err
		}
		if pending {
			return nil, fmt.Errorf("transaction is pending")
		}
		return tx, nil
	}, c.retryConfig, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	from, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return nil, fmt.Errorf("failed to recover transaction sender: %w", err)
	}

	return &TxDetails{
		Receipt: receipt,
		From:    from,
		To:      tx.To(),
	}, nil
}

// ReadContract performs an eth_call against the given contract method and
// unpacks the return values.
func (c *Client) ReadContract(ctx context.Context, address common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	input, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack call data for %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &address, Data: input}

	output, err := retry.Retry(ctx, func() ([]byte, error) {
		return c.eth.CallContract(ctx, msg, nil)
	}, c.retryConfig, c.logger)
	if err != nil {
		return nil, fmt.Errorf("contract call %s failed: %w", method, err)
	}

	values, err := contractABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s return data: %w", method, err)
	}
	return values, nil
}

// Close releases the underlying RPC connection
func (c *Client) Close() {
	c.eth.Close()
}
