package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gitglyph/core/internal/modules/gist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRecord() gist.Record {
	return gist.Record{
		Description: "Hello World Examples",
		AuthorLogin: "octocat",
		Content:     "puts 'Hello World'",
		Filename:    "hello.rb",
		Language:    "Ruby",
	}
}

type fakePublisher struct {
	result PublishResult
	err    error
	inputs []PublishInput
	gate   chan struct{}
}

func (f *fakePublisher) Publish(_ context.Context, dto PublishInput) (PublishResult, error) {
	f.inputs = append(f.inputs, dto)
	if f.gate != nil {
		<-f.gate
	}
	return f.result, f.err
}

type awaitOutcome struct {
	result MintResult
	err    error
}

type fakeMinter struct {
	handle    string
	submitErr error
	submits   int
	outcomes  chan awaitOutcome
}

func newFakeMinter() *fakeMinter {
	return &fakeMinter{handle: "0xabc123", outcomes: make(chan awaitOutcome, 4)}
}

func (f *fakeMinter) Submit(_ context.Context, _, _ string) (string, error) {
	f.submits++
	return f.handle, f.submitErr
}

func (f *fakeMinter) Await(_ context.Context, _ string) (MintResult, error) {
	out := <-f.outcomes
	return out.result, out.err
}

func newTestController(pub Publisher, minter Minter, wallet string) *Controller {
	return NewController(testRecord(), wallet, pub, minter, zap.NewNop())
}

func waitForState(t *testing.T, c *Controller, want State) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Snapshot().State == want
	}, 2*time.Second, 10*time.Millisecond)
	return c.Snapshot()
}

func TestControllerStartsInitial(t *testing.T) {
	c := newTestController(&fakePublisher{}, newFakeMinter(), "0xwallet")

	snap := c.Snapshot()
	assert.Equal(t, StateInitial, snap.State)
	assert.Equal(t, Data{}, snap.Data)
	assert.Equal(t, "octocat", snap.Gist.AuthorLogin)
}

func TestPublishMovesToPublished(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{
		ArweaveID: "tx-id-1",
		URL:       "https://arweave.net/tx-id-1",
	}}
	c := newTestController(pub, newFakeMinter(), "0xwallet")

	snap, err := c.Publish(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatePublished, snap.State)
	assert.Equal(t, "tx-id-1", snap.Data.ArweaveID)
	assert.Equal(t, "https://arweave.net/tx-id-1", snap.Data.ArweaveURL)
	assert.Empty(t, snap.Data.Error)

	require.Len(t, pub.inputs, 1)
	assert.Equal(t, "puts 'Hello World'", pub.inputs[0].Content)
	assert.Equal(t, "octocat", pub.inputs[0].AuthorLogin)
	assert.Equal(t, "hello.rb", pub.inputs[0].Filename)
}

func TestPublishFailureEntersErrorState(t *testing.T) {
	pub := &fakePublisher{err: errors.New("Insufficient funds for upload")}
	c := newTestController(pub, newFakeMinter(), "0xwallet")

	snap, err := c.Publish(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "Insufficient funds for upload", snap.Data.Error)
}

func TestPublishOnlyFromInitial(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"}}
	c := newTestController(pub, newFakeMinter(), "0xwallet")

	_, err := c.Publish(context.Background())
	require.NoError(t, err)

	_, err = c.Publish(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Len(t, pub.inputs, 1)
}

func TestPublishBusyWhileInFlight(t *testing.T) {
	pub := &fakePublisher{
		result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"},
		gate:   make(chan struct{}),
	}
	c := newTestController(pub, newFakeMinter(), "0xwallet")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Publish(context.Background())
	}()

	waitForState(t, c, StatePublishing)
	_, err := c.Publish(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(pub.gate)
	<-done
	assert.Equal(t, StatePublished, c.Snapshot().State)
}

func TestMintRequiresPublishedState(t *testing.T) {
	c := newTestController(&fakePublisher{}, newFakeMinter(), "0xwallet")

	_, err := c.Mint(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StateInitial, c.Snapshot().State)
}

func TestMintRequiresWallet(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"}}
	c := newTestController(pub, newFakeMinter(), "")

	_, err := c.Publish(context.Background())
	require.NoError(t, err)

	_, err = c.Mint(context.Background())
	assert.ErrorIs(t, err, ErrWalletRequired)
	assert.Equal(t, StatePublished, c.Snapshot().State)
}

func TestMintRequiresPublishData(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a"}}
	c := newTestController(pub, newFakeMinter(), "0xwallet")

	_, err := c.Publish(context.Background())
	require.NoError(t, err)

	_, err = c.Mint(context.Background())
	assert.ErrorIs(t, err, ErrMissingPublishData)
}

func TestMintConfirmsToMinted(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"}}
	minter := newFakeMinter()
	c := newTestController(pub, minter, "0xwallet")

	_, err := c.Publish(context.Background())
	require.NoError(t, err)

	snap, err := c.Mint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateMinting, snap.State)

	minter.outcomes <- awaitOutcome{result: MintResult{TransactionHash: "0xabc123", TokenID: "42"}}

	snap = waitForState(t, c, StateMinted)
	assert.Equal(t, "0xabc123", snap.Data.TransactionHash)
	assert.Equal(t, "42", snap.Data.TokenID)
	assert.Equal(t, "a", snap.Data.ArweaveID)

	// Minted is terminal; no trigger repeats the mint.
	_, err = c.Mint(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, minter.submits)
}

func TestMintSubmitFailureEntersErrorState(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"}}
	minter := newFakeMinter()
	minter.submitErr = errors.New("wrong network")
	c := newTestController(pub, minter, "0xwallet")

	_, err := c.Publish(context.Background())
	require.NoError(t, err)

	snap, err := c.Mint(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "wrong network", snap.Data.Error)
}

func TestMintConfirmationFailureEntersErrorState(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"}}
	minter := newFakeMinter()
	c := newTestController(pub, minter, "0xwallet")

	_, err := c.Publish(context.Background())
	require.NoError(t, err)
	_, err = c.Mint(context.Background())
	require.NoError(t, err)

	minter.outcomes <- awaitOutcome{err: errors.New("execution reverted")}

	snap := waitForState(t, c, StateError)
	assert.Equal(t, "execution reverted", snap.Data.Error)
	assert.Equal(t, "a", snap.Data.ArweaveID)
}

func TestPendingConfirmationStaysMintingAndRechecks(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"}}
	minter := newFakeMinter()
	c := newTestController(pub, minter, "0xwallet")

	_, err := c.Publish(context.Background())
	require.NoError(t, err)
	_, err = c.Mint(context.Background())
	require.NoError(t, err)

	minter.outcomes <- awaitOutcome{err: ErrConfirmationPending}
	require.Eventually(t, func() bool {
		_, err := c.Recheck()
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, StateMinting, c.Snapshot().State)

	minter.outcomes <- awaitOutcome{result: MintResult{TransactionHash: "0xabc123", TokenID: "7"}}
	snap := waitForState(t, c, StateMinted)
	assert.Equal(t, "7", snap.Data.TokenID)
	assert.Equal(t, 1, minter.submits)
}

func TestRecheckOnlyWhileMinting(t *testing.T) {
	c := newTestController(&fakePublisher{}, newFakeMinter(), "0xwallet")

	_, err := c.Recheck()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestResetClearsErrorState(t *testing.T) {
	pub := &fakePublisher{err: errors.New("upload failed")}
	c := newTestController(pub, newFakeMinter(), "0xwallet")

	_, err := c.Publish(context.Background())
	require.Error(t, err)

	snap, err := c.Reset()
	require.NoError(t, err)
	assert.Equal(t, StateInitial, snap.State)
	assert.Equal(t, Data{}, snap.Data)

	// The workflow is usable again after a reset.
	pub.err = nil
	pub.result = PublishResult{ArweaveID: "b", URL: "https://arweave.net/b"}
	snap, err = c.Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatePublished, snap.State)
	assert.Equal(t, "b", snap.Data.ArweaveID)
}

func TestResetOnlyFromError(t *testing.T) {
	pub := &fakePublisher{result: PublishResult{ArweaveID: "a", URL: "https://arweave.net/a"}}
	c := newTestController(pub, newFakeMinter(), "0xwallet")

	_, err := c.Reset()
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = c.Publish(context.Background())
	require.NoError(t, err)

	_, err = c.Reset()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StatePublished, c.Snapshot().State)
}
