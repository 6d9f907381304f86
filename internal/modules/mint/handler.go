package mint

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/gitglyph/core/internal/pkg/response"
)

// Reader is the chain read surface behind the token gallery endpoints.
type Reader interface {
	OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
}

// TokenView is the read model of a minted token.
type TokenView struct {
	TokenID  string `json:"tokenId"`
	Owner    string `json:"owner"`
	TokenURI string `json:"tokenUri"`
}

// BalanceView reports how many tokens a wallet holds.
type BalanceView struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// Handler serves chain reads. A nil reader means no chain RPC endpoint is
// configured.
type Handler struct {
	reader Reader
}

func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/token/:id", h.token)
	rg.GET("/wallet/:address/tokens", h.balance)
}

// GET /token/:id
func (h *Handler) token(c *gin.Context) {
	if h.reader == nil {
		response.ServiceUnavailable(c, "Chain endpoint not configured")
		return
	}

	tokenID, ok := new(big.Int).SetString(c.Param("id"), 10)
	if !ok || tokenID.Sign() < 0 {
		response.BadRequest(c, "Invalid token ID")
		return
	}

	owner, err := h.reader.OwnerOf(c.Request.Context(), tokenID)
	if err != nil {
		writeReadError(c, err)
		return
	}
	uri, err := h.reader.TokenURI(c.Request.Context(), tokenID)
	if err != nil {
		writeReadError(c, err)
		return
	}

	response.OK(c, TokenView{
		TokenID:  tokenID.String(),
		Owner:    owner.Hex(),
		TokenURI: uri,
	})
}

// GET /wallet/:address/tokens
func (h *Handler) balance(c *gin.Context) {
	if h.reader == nil {
		response.ServiceUnavailable(c, "Chain endpoint not configured")
		return
	}

	address := c.Param("address")
	if !common.IsHexAddress(address) {
		response.BadRequest(c, "Invalid wallet address")
		return
	}

	balance, err := h.reader.BalanceOf(c.Request.Context(), common.HexToAddress(address))
	if err != nil {
		writeReadError(c, err)
		return
	}

	response.OK(c, BalanceView{
		Address: common.HexToAddress(address).Hex(),
		Balance: balance.String(),
	})
}

// writeReadError distinguishes a reverted read, which ERC-721 contracts use
// for nonexistent tokens, from a node failure.
func writeReadError(c *gin.Context, err error) {
	if strings.Contains(strings.ToLower(err.Error()), "revert") {
		response.NotFoundMsg(c, "Token not found")
		return
	}
	response.InternalErrorMsg(c, "Failed to read token data")
}
