package mint

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

const (
	defaultPollInterval   = 3 * time.Second
	defaultReceiptTimeout = 2 * time.Minute
)

var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// Backend is the narrow interface to the chain. TransactionReceipt returns
// (nil, nil) while the transaction is pending.
type Backend interface {
	SubmitMint(ctx context.Context, to common.Address, tokenURI string) (common.Hash, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// Executor submits mint transactions and observes their confirmation within a
// bounded wait.
type Executor struct {
	backend        Backend
	contract       common.Address
	pollInterval   time.Duration
	receiptTimeout time.Duration
	logger         *zap.Logger
}

func NewExecutor(backend Backend, contract common.Address, logger *zap.Logger) *Executor {
	return &Executor{
		backend:        backend,
		contract:       contract,
		pollInterval:   defaultPollInterval,
		receiptTimeout: defaultReceiptTimeout,
		logger:         logger,
	}
}

// Mint submits the transaction and returns its handle without waiting for
// confirmation.
func (e *Executor) Mint(ctx context.Context, to common.Address, tokenURI string) (common.Hash, error) {
	if tokenURI == "" {
		return common.Hash{}, fmt.Errorf("%w: empty token uri", ErrSubmissionRejected)
	}
	return e.backend.SubmitMint(ctx, to, tokenURI)
}

// AwaitReceipt polls for the receipt until the bounded wait elapses.
// ErrReceiptTimeout is not a terminal failure; callers may re-invoke with the
// same handle.
func (e *Executor) AwaitReceipt(ctx context.Context, txHash common.Hash) (Confirmation, error) {
	deadline := time.NewTimer(e.receiptTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.backend.TransactionReceipt(ctx, txHash)
		if err != nil {
			return Confirmation{}, err
		}
		if receipt != nil {
			return e.confirm(txHash, receipt)
		}

		select {
		case <-ctx.Done():
			return Confirmation{}, ctx.Err()
		case <-deadline.C:
			return Confirmation{}, fmt.Errorf("%w: %s", ErrReceiptTimeout, txHash.Hex())
		case <-ticker.C:
		}
	}
}

func (e *Executor) confirm(txHash common.Hash, receipt *ethtypes.Receipt) (Confirmation, error) {
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return Confirmation{}, fmt.Errorf("%w: %s", ErrTransactionReverted, txHash.Hex())
	}

	conf := Confirmation{
		TransactionHash: txHash.Hex(),
		TokenID:         e.tokenIDFromLogs(receipt),
	}
	if receipt.BlockNumber != nil {
		conf.BlockNumber = receipt.BlockNumber.Uint64()
	}
	e.logger.Info("mint confirmed",
		zap.String("tx", conf.TransactionHash),
		zap.String("tokenId", conf.TokenID),
	)
	return conf, nil
}

// tokenIDFromLogs extracts the minted token id from the ERC-721 Transfer
// event. Falls back to "latest" when the log is absent or trimmed.
func (e *Executor) tokenIDFromLogs(receipt *ethtypes.Receipt) string {
	for _, l := range receipt.Logs {
		if l.Address != e.contract {
			continue
		}
		if len(l.Topics) != 4 || l.Topics[0] != transferTopic {
			continue
		}
		return new(big.Int).SetBytes(l.Topics[3].Bytes()).String()
	}
	return "latest"
}
