package mint

import "errors"

// contractABI is the fixed minimal surface of the deployed ERC-721: a
// mint-to-address-with-URI function plus the standard read accessors.
const contractABI = `[
	{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"string","name":"uri","type":"string"}],"name":"mintTo","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"address","name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

// Confirmation is the observed outcome of a confirmed mint transaction.
type Confirmation struct {
	TransactionHash string `json:"transactionHash"`
	TokenID         string `json:"tokenId"`
	BlockNumber     uint64 `json:"blockNumber,omitempty"`
}

var (
	ErrWrongNetwork        = errors.New("connected chain is not the supported network")
	ErrSubmissionRejected  = errors.New("mint transaction rejected")
	ErrTransactionReverted = errors.New("mint transaction reverted")
	ErrReceiptTimeout      = errors.New("transaction confirmation not observed in time")
)
