package mint

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gitglyph/core/internal/config"
	"go.uber.org/zap"
)

// ChainClient talks to the wallet-providing node over JSON-RPC. The node owns
// the acting account; this client never touches key material.
type ChainClient struct {
	cfg      config.ChainConfig
	abi      abi.ABI
	contract common.Address
	account  common.Address
	logger   *zap.Logger

	mu  sync.Mutex
	rpc *rpc.Client
	eth *ethclient.Client
}

func NewChainClient(cfg config.ChainConfig, logger *zap.Logger) (*ChainClient, error) {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return nil, errors.New("chain rpc_url not configured")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}

	c := &ChainClient{
		cfg:      cfg,
		abi:      parsed,
		contract: common.HexToAddress(cfg.ContractAddress),
		logger:   logger,
	}
	if cfg.Account != "" {
		if !common.IsHexAddress(cfg.Account) {
			return nil, fmt.Errorf("invalid account address %q", cfg.Account)
		}
		c.account = common.HexToAddress(cfg.Account)
	}
	return c, nil
}

// Contract returns the configured NFT contract address.
func (c *ChainClient) Contract() common.Address { return c.contract }

// conn dials lazily and hands out the connection under the mutex, so a
// concurrent Close cannot race a caller.
func (c *ChainClient) conn(ctx context.Context) (*rpc.Client, *ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eth != nil {
		return c.rpc, c.eth, nil
	}

	rpcClient, err := rpc.DialContext(ctx, c.cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial chain rpc: %w", err)
	}
	c.rpc = rpcClient
	c.eth = ethclient.NewClient(rpcClient)
	return c.rpc, c.eth, nil
}

// verifyChain confirms the node is still on the supported network. Runs on
// every submission; nodes behind load balancers have been seen to switch.
func (c *ChainClient) verifyChain(ctx context.Context, rpcClient *rpc.Client) error {
	var chainID hexutil.Big
	if err := rpcClient.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return fmt.Errorf("read chain id: %w", err)
	}
	if (*big.Int)(&chainID).Cmp(big.NewInt(c.cfg.ChainID)) != 0 {
		return fmt.Errorf("%w: connected to %s, want %d", ErrWrongNetwork, (*big.Int)(&chainID), c.cfg.ChainID)
	}
	return nil
}

// SubmitMint sends a mintTo transaction and returns the handle immediately.
// Non-idempotent: every call creates a distinct token.
func (c *ChainClient) SubmitMint(ctx context.Context, to common.Address, tokenURI string) (common.Hash, error) {
	rpcClient, _, err := c.conn(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}
	if err := c.verifyChain(ctx, rpcClient); err != nil {
		if errors.Is(err, ErrWrongNetwork) {
			return common.Hash{}, err
		}
		return common.Hash{}, fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}

	data, err := c.abi.Pack("mintTo", to, tokenURI)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: pack calldata: %v", ErrSubmissionRejected, err)
	}

	from := to
	if (c.account != common.Address{}) {
		from = c.account
	}

	args := map[string]interface{}{
		"from": from,
		"to":   c.contract,
		"data": hexutil.Bytes(data),
	}
	var txHash common.Hash
	if err := rpcClient.CallContext(ctx, &txHash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}

	c.logger.Info("mint submitted",
		zap.String("tx", txHash.Hex()),
		zap.String("to", to.Hex()),
		zap.String("tokenURI", tokenURI),
	)
	return txHash, nil
}

// TransactionReceipt returns (nil, nil) while the transaction is pending.
func (c *ChainClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	_, eth, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := eth.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	return receipt, err
}

// OwnerOf returns the current owner of a token.
func (c *ChainClient) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	var owner common.Address
	err := c.call(ctx, "ownerOf", &owner, tokenID)
	return owner, err
}

// TokenURI returns the metadata URI of a token.
func (c *ChainClient) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var uri string
	err := c.call(ctx, "tokenURI", &uri, tokenID)
	return uri, err
}

// BalanceOf returns the token count held by an address.
func (c *ChainClient) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance := new(big.Int)
	err := c.call(ctx, "balanceOf", &balance, owner)
	return balance, err
}

func (c *ChainClient) call(ctx context.Context, method string, result interface{}, args ...interface{}) error {
	_, eth, err := c.conn(ctx)
	if err != nil {
		return err
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	return c.abi.UnpackIntoInterface(result, method, out)
}

// Close releases the RPC connection.
func (c *ChainClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpc != nil {
		c.rpc.Close()
		c.rpc = nil
		c.eth = nil
	}
}
