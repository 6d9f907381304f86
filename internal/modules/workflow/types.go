package workflow

import (
	"context"
	"errors"

	"github.com/gitglyph/core/internal/modules/gist"
)

// State is the single active phase of a publish-and-mint workflow.
type State string

const (
	StateInitial    State = "initial"
	StatePublishing State = "publishing"
	StatePublished  State = "published"
	StateMinting    State = "minting"
	StateMinted     State = "minted"
	StateError      State = "error"
)

// Data accumulates workflow results as they become available. Fields are
// additive; only an explicit reset clears them.
type Data struct {
	ArweaveID       string `json:"arweaveId,omitempty"`
	ArweaveURL      string `json:"arweaveUrl,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	TokenID         string `json:"tokenId,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Snapshot is a consistent read of a controller's state.
type Snapshot struct {
	State  State       `json:"state"`
	Data   Data        `json:"data"`
	Gist   gist.Record `json:"gist"`
	Wallet string      `json:"wallet,omitempty"`
}

// Publisher uploads a manifest to permanent storage. Billable and
// non-idempotent; implementations never retry.
type Publisher interface {
	Publish(ctx context.Context, dto PublishInput) (PublishResult, error)
}

// PublishInput carries the manifest fields derived from the gist record.
type PublishInput struct {
	Content     string
	Description string
	AuthorLogin string
	Filename    string
	Language    string
}

// PublishResult identifies the stored manifest.
type PublishResult struct {
	ArweaveID string
	URL       string
}

// Minter submits mint transactions and observes their confirmation. Await
// returns ErrConfirmationPending when the bounded wait elapses without a
// receipt; the handle stays valid for re-checking.
type Minter interface {
	Submit(ctx context.Context, wallet, tokenURI string) (handle string, err error)
	Await(ctx context.Context, handle string) (MintResult, error)
}

// MintResult is the observed outcome of a confirmed mint.
type MintResult struct {
	TransactionHash string
	TokenID         string
}

var (
	// ErrBusy rejects a state-changing call while another is in flight.
	ErrBusy = errors.New("another workflow operation is in flight")
	// ErrInvalidState rejects a trigger the current state does not offer.
	ErrInvalidState = errors.New("action not available in current workflow state")
	// ErrWalletRequired rejects minting without a bound wallet address.
	ErrWalletRequired = errors.New("connected wallet required")
	// ErrMissingPublishData rejects minting without a published manifest URL.
	ErrMissingPublishData = errors.New("no published manifest to mint")
	// ErrConfirmationPending is returned by Minter.Await when the bounded
	// wait elapses; the workflow stays in minting.
	ErrConfirmationPending = errors.New("transaction confirmation pending")
)
