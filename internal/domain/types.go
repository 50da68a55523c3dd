package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType represents the type of blockchain event
type EventType string

const (
	EventTypeTransfer EventType = "transfer"
	EventTypeMint     EventType = "mint"
	EventTypeBurn     EventType = "burn"
)

// TransactionKind identifies which marketplace operation a transaction performs
type TransactionKind string

const (
	TransactionKindMint    TransactionKind = "mint"
	TransactionKindApprove TransactionKind = "approve"
	TransactionKindList    TransactionKind = "list"
	TransactionKindBuy     TransactionKind = "buy"
)

// TransactionStatus represents the lifecycle of a submitted transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusReverted  TransactionStatus = "reverted"
)

// TransferEvent represents a normalized ERC-721 Transfer observed on chain
type TransferEvent struct {
	ContractAddress string    `json:"contract_address"`
	TokenID         string    `json:"token_id"`
	FromAddress     string    `json:"from_address"`
	ToAddress       string    `json:"to_address"`
	TxHash          string    `json:"tx_hash"`
	BlockNumber     uint64    `json:"block_number"`
	LogIndex        uint      `json:"log_index"`
	Timestamp       time.Time `json:"timestamp"`
}

// EventType classifies the transfer based on its from/to addresses
func (e *TransferEvent) EventType() EventType {
	if e.FromAddress == "" || e.FromAddress == EthereumZeroAddress {
		return EventTypeMint
	}
	if e.ToAddress == "" || e.ToAddress == EthereumZeroAddress {
		return EventTypeBurn
	}
	return EventTypeTransfer
}

// Valid checks that the transfer carries the fields the indexer depends on
func (e *TransferEvent) Valid() bool {
	if !common.IsHexAddress(e.ContractAddress) {
		return false
	}
	if e.TokenID == "" || e.TxHash == "" {
		return false
	}

	switch e.EventType() {
	case EventTypeMint:
		return e.ToAddress != "" && e.ToAddress != EthereumZeroAddress
	case EventTypeBurn:
		return e.FromAddress != "" && e.FromAddress != EthereumZeroAddress
	default:
		return true
	}
}

// MintIntent carries the creator-supplied parameters for a new token
type MintIntent struct {
	CreatorAddress    string `json:"creator_address"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Price             string `json:"price"`
	RoyaltyBasisPoint int64  `json:"royalty_basis_point"`
}

// Validate checks the intent before any upload or transaction is attempted
func (m *MintIntent) Validate() error {
	if !common.IsHexAddress(m.CreatorAddress) {
		return fmt.Errorf("invalid creator address: %s", m.CreatorAddress)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if m.RoyaltyBasisPoint < 0 || m.RoyaltyBasisPoint > MaxRoyaltyBasisPoints {
		return fmt.Errorf("%w: %d basis points", ErrInvalidRoyalty, m.RoyaltyBasisPoint)
	}
	if m.Price != "" {
		if _, err := ParsePrice(m.Price); err != nil {
			return err
		}
	}
	return nil
}

// ShouldList reports whether the intent asks for an immediate listing.
// An empty or non-positive price means mint without listing.
func (m *MintIntent) ShouldList() bool {
	if m.Price == "" {
		return false
	}
	price, err := ParsePrice(m.Price)
	if err != nil {
		return false
	}
	return price.IsPositive()
}

// ParsePrice parses a decimal ETH amount and rejects non-positive values
func ParsePrice(price string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	return d, nil
}

// NormalizeAddress normalizes an Ethereum address to its checksummed form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

// CacheKeyAddress lowercases an address for use as a map or cache key
func CacheKeyAddress(address string) string {
	return strings.ToLower(address)
}

// RepairEvent asks the reconciler to re-check one token against chain state
type RepairEvent struct {
	ID              string    `json:"id"`
	ContractAddress string    `json:"contract_address"`
	TokenID         string    `json:"token_id"`
	Reason          string    `json:"reason"`
	RequestedAt     time.Time `json:"requested_at"`
}

// NewRepairEvent builds a repair request for one token
func NewRepairEvent(contractAddress string, tokenID string, reason string, requestedAt time.Time) *RepairEvent {
	return &RepairEvent{
		ID:              uuid.NewString(),
		ContractAddress: NormalizeAddress(contractAddress),
		TokenID:         tokenID,
		Reason:          reason,
		RequestedAt:     requestedAt,
	}
}
