package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gitglyph/core/internal/modules/arweave"
	"github.com/gitglyph/core/internal/modules/mint"
	"github.com/gitglyph/core/internal/modules/workflow"
)

var errChainUnavailable = errors.New("chain endpoint not configured")

// publisherAdapter feeds workflow publish steps through the storage service.
type publisherAdapter struct {
	svc *arweave.Service
}

func (a publisherAdapter) Publish(ctx context.Context, in workflow.PublishInput) (workflow.PublishResult, error) {
	result, err := a.svc.Publish(ctx, arweave.PublishDTO{
		Content:     in.Content,
		Description: in.Description,
		AuthorLogin: in.AuthorLogin,
		Filename:    in.Filename,
		Language:    in.Language,
	})
	if err != nil {
		return workflow.PublishResult{}, err
	}
	return workflow.PublishResult{ArweaveID: result.ArweaveID, URL: result.URL}, nil
}

// minterAdapter bridges the workflow to the chain executor. A nil executor
// means no chain RPC endpoint was configured; every mint fails cleanly.
type minterAdapter struct {
	exec *mint.Executor
}

func (a minterAdapter) Submit(ctx context.Context, wallet, tokenURI string) (string, error) {
	if a.exec == nil {
		return "", errChainUnavailable
	}
	if !common.IsHexAddress(wallet) {
		return "", fmt.Errorf("%w: invalid wallet address %q", mint.ErrSubmissionRejected, wallet)
	}
	hash, err := a.exec.Mint(ctx, common.HexToAddress(wallet), tokenURI)
	if err != nil {
		return "", err
	}
	return hash.Hex(), nil
}

func (a minterAdapter) Await(ctx context.Context, handle string) (workflow.MintResult, error) {
	if a.exec == nil {
		return workflow.MintResult{}, errChainUnavailable
	}
	confirmation, err := a.exec.AwaitReceipt(ctx, common.HexToHash(handle))
	if errors.Is(err, mint.ErrReceiptTimeout) {
		return workflow.MintResult{}, workflow.ErrConfirmationPending
	}
	if err != nil {
		return workflow.MintResult{}, err
	}
	return workflow.MintResult{
		TransactionHash: confirmation.TransactionHash,
		TokenID:         confirmation.TokenID,
	}, nil
}
