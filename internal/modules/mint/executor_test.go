package mint

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testContract = common.HexToAddress("0x00000000000000000000000000000000000000ff")
	testWallet   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	testTxHash   = common.HexToHash("0xabc0000000000000000000000000000000000000000000000000000000000000")
)

type fakeBackend struct {
	submitHash common.Hash
	submitErr  error
	receipts   []*ethtypes.Receipt // returned in order; nil entries mean pending
	receiptErr error
	calls      int
}

func (f *fakeBackend) SubmitMint(_ context.Context, _ common.Address, _ string) (common.Hash, error) {
	return f.submitHash, f.submitErr
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, _ common.Hash) (*ethtypes.Receipt, error) {
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	if f.calls >= len(f.receipts) {
		return nil, nil
	}
	r := f.receipts[f.calls]
	f.calls++
	return r, nil
}

func newTestExecutor(backend Backend) *Executor {
	e := NewExecutor(backend, testContract, zap.NewNop())
	e.pollInterval = time.Millisecond
	e.receiptTimeout = 50 * time.Millisecond
	return e
}

func transferReceipt(tokenID int64) *ethtypes.Receipt {
	return &ethtypes.Receipt{
		Status:      ethtypes.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(1000),
		Logs: []*ethtypes.Log{{
			Address: testContract,
			Topics: []common.Hash{
				transferTopic,
				common.Hash{}, // from: zero address on mint
				common.BytesToHash(testWallet.Bytes()),
				common.BigToHash(big.NewInt(tokenID)),
			},
		}},
	}
}

func TestMintRejectsEmptyTokenURI(t *testing.T) {
	e := newTestExecutor(&fakeBackend{})
	_, err := e.Mint(context.Background(), testWallet, "")
	assert.ErrorIs(t, err, ErrSubmissionRejected)
}

func TestMintReturnsHandleImmediately(t *testing.T) {
	e := newTestExecutor(&fakeBackend{submitHash: testTxHash})
	hash, err := e.Mint(context.Background(), testWallet, "https://arweave.net/abc123")
	require.NoError(t, err)
	assert.Equal(t, testTxHash, hash)
}

func TestMintSubmissionRejected(t *testing.T) {
	backend := &fakeBackend{submitErr: ErrSubmissionRejected}
	e := newTestExecutor(backend)
	_, err := e.Mint(context.Background(), testWallet, "https://arweave.net/abc123")
	assert.ErrorIs(t, err, ErrSubmissionRejected)
}

func TestAwaitReceiptConfirmed(t *testing.T) {
	backend := &fakeBackend{receipts: []*ethtypes.Receipt{nil, nil, transferReceipt(42)}}
	e := newTestExecutor(backend)

	conf, err := e.AwaitReceipt(context.Background(), testTxHash)
	require.NoError(t, err)

	assert.Equal(t, testTxHash.Hex(), conf.TransactionHash)
	assert.Equal(t, "42", conf.TokenID)
	assert.Equal(t, uint64(1000), conf.BlockNumber)
}

func TestAwaitReceiptTokenIDFallback(t *testing.T) {
	receipt := &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}
	backend := &fakeBackend{receipts: []*ethtypes.Receipt{receipt}}
	e := newTestExecutor(backend)

	conf, err := e.AwaitReceipt(context.Background(), testTxHash)
	require.NoError(t, err)
	assert.Equal(t, "latest", conf.TokenID)
}

func TestAwaitReceiptIgnoresForeignLogs(t *testing.T) {
	receipt := transferReceipt(7)
	receipt.Logs[0].Address = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	backend := &fakeBackend{receipts: []*ethtypes.Receipt{receipt}}
	e := newTestExecutor(backend)

	conf, err := e.AwaitReceipt(context.Background(), testTxHash)
	require.NoError(t, err)
	assert.Equal(t, "latest", conf.TokenID)
}

func TestAwaitReceiptReverted(t *testing.T) {
	receipt := &ethtypes.Receipt{Status: ethtypes.ReceiptStatusFailed, BlockNumber: big.NewInt(1)}
	backend := &fakeBackend{receipts: []*ethtypes.Receipt{receipt}}
	e := newTestExecutor(backend)

	_, err := e.AwaitReceipt(context.Background(), testTxHash)
	assert.ErrorIs(t, err, ErrTransactionReverted)
}

func TestAwaitReceiptTimeout(t *testing.T) {
	e := newTestExecutor(&fakeBackend{}) // never returns a receipt

	start := time.Now()
	_, err := e.AwaitReceipt(context.Background(), testTxHash)

	assert.ErrorIs(t, err, ErrReceiptTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwaitReceiptContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestExecutor(&fakeBackend{})
	_, err := e.AwaitReceipt(ctx, testTxHash)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAwaitReceiptBackendError(t *testing.T) {
	wantErr := errors.New("rpc unavailable")
	e := newTestExecutor(&fakeBackend{receiptErr: wantErr})

	_, err := e.AwaitReceipt(context.Background(), testTxHash)
	assert.ErrorIs(t, err, wantErr)
}
