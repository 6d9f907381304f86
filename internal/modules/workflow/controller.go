package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/gitglyph/core/internal/modules/gist"
	"go.uber.org/zap"
)

// Controller sequences one gist through publish and mint. Each instance is
// bound to a single (gist, wallet) pairing and owns its state exclusively;
// nothing here is shared across instances.
//
// Exactly one state is active at any time. Transitions happen only on
// trigger calls and collaborator completions:
//
//	initial --publish--> publishing --ok--> published --mint--> minting --receipt--> minted
//	publishing/minting --failure--> error --reset--> initial
type Controller struct {
	gist   gist.Record
	wallet string
	pub    Publisher
	minter Minter
	logger *zap.Logger

	mu         sync.Mutex
	state      State
	data       Data
	inFlight   bool
	confirming bool
	pendingTx  string
}

func NewController(record gist.Record, wallet string, pub Publisher, minter Minter, logger *zap.Logger) *Controller {
	return &Controller{
		gist:   record,
		wallet: wallet,
		pub:    pub,
		minter: minter,
		logger: logger,
		state:  StateInitial,
	}
}

// Snapshot returns a consistent copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, Data: c.data, Gist: c.gist, Wallet: c.wallet}
}

// Publish runs the publish step. Only offered in the initial state; clears
// any previous workflow data first. The collaborator failure is stored
// verbatim and surfaces as the returned error.
func (c *Controller) Publish(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return c.Snapshot(), ErrBusy
	}
	if c.state != StateInitial {
		c.mu.Unlock()
		return c.Snapshot(), ErrInvalidState
	}
	c.data = Data{}
	c.state = StatePublishing
	c.inFlight = true
	c.mu.Unlock()

	result, err := c.pub.Publish(ctx, PublishInput{
		Content:     c.gist.Content,
		Description: c.gist.Description,
		AuthorLogin: c.gist.AuthorLogin,
		Filename:    c.gist.Filename,
		Language:    c.gist.Language,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.data.Error = err.Error()
		c.state = StateError
		c.logger.Warn("publish failed", zap.Error(err))
		return c.snapshotLocked(), err
	}

	c.data.ArweaveID = result.ArweaveID
	c.data.ArweaveURL = result.URL
	c.state = StatePublished
	c.logger.Info("workflow published", zap.String("arweaveId", result.ArweaveID))
	return c.snapshotLocked(), nil
}

// Mint submits the mint transaction. Only offered in the published state,
// with a bound wallet and a non-empty published manifest URL. The call
// returns once the transaction is submitted; confirmation is observed
// asynchronously and applied through the same transition table.
func (c *Controller) Mint(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return c.Snapshot(), ErrBusy
	}
	if c.state != StatePublished {
		c.mu.Unlock()
		return c.Snapshot(), ErrInvalidState
	}
	if c.wallet == "" {
		c.mu.Unlock()
		return c.Snapshot(), ErrWalletRequired
	}
	if c.data.ArweaveURL == "" {
		c.mu.Unlock()
		return c.Snapshot(), ErrMissingPublishData
	}
	tokenURI := c.data.ArweaveURL
	c.state = StateMinting
	c.inFlight = true
	c.mu.Unlock()

	handle, err := c.minter.Submit(ctx, c.wallet, tokenURI)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.data.Error = err.Error()
		c.state = StateError
		c.mu.Unlock()
		c.logger.Warn("mint submission failed", zap.Error(err))
		return c.Snapshot(), err
	}
	c.pendingTx = handle
	c.confirming = true
	c.mu.Unlock()

	go c.confirm(handle)
	return c.Snapshot(), nil
}

// Recheck re-arms confirmation after a bounded wait elapsed without a
// receipt. No-op unless the workflow is minting with an idle handle.
func (c *Controller) Recheck() (Snapshot, error) {
	c.mu.Lock()
	if c.state != StateMinting || c.pendingTx == "" {
		c.mu.Unlock()
		return c.Snapshot(), ErrInvalidState
	}
	if c.confirming {
		c.mu.Unlock()
		return c.Snapshot(), ErrBusy
	}
	c.confirming = true
	handle := c.pendingTx
	c.mu.Unlock()

	go c.confirm(handle)
	return c.Snapshot(), nil
}

// confirm waits for the receipt and resolves it into the transition table.
// Runs outside any request context; the Minter bounds the wait.
func (c *Controller) confirm(handle string) {
	result, err := c.minter.Await(context.Background(), handle)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirming = false
	if c.state != StateMinting {
		return
	}

	if errors.Is(err, ErrConfirmationPending) {
		c.logger.Info("mint confirmation pending", zap.String("tx", handle))
		return
	}
	if err != nil {
		c.data.Error = err.Error()
		c.state = StateError
		c.logger.Warn("mint confirmation failed", zap.Error(err))
		return
	}

	c.data.TransactionHash = result.TransactionHash
	c.data.TokenID = result.TokenID
	c.state = StateMinted
	c.pendingTx = ""
	c.logger.Info("workflow minted",
		zap.String("tx", result.TransactionHash),
		zap.String("tokenId", result.TokenID),
	)
}

// Reset returns an errored workflow to the initial state and clears all
// workflow data. The only way out of the error state.
func (c *Controller) Reset() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight || c.confirming {
		return c.snapshotLocked(), ErrBusy
	}
	if c.state != StateError {
		return c.snapshotLocked(), ErrInvalidState
	}
	c.state = StateInitial
	c.data = Data{}
	c.pendingTx = ""
	return c.snapshotLocked(), nil
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, Data: c.data, Gist: c.gist, Wallet: c.wallet}
}
