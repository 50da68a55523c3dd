package rest

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/store"
	"github.com/arcnft/marketplace-sync/internal/store/schema"
	"github.com/arcnft/marketplace-sync/internal/uri"
)

// IndexTokenRequest is the body of POST /api/v1/index
type IndexTokenRequest struct {
	ContractAddress   string `json:"contract_address"`
	TokenID           string `json:"token_id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	ImageCID          string `json:"image_cid"`
	MetadataCID       string `json:"metadata_cid"`
	CreatorAddress    string `json:"creator_address"`
	OwnerAddress      string `json:"owner_address"`
	RoyaltyBasisPoint int64  `json:"royalty_basis_point"`
}

func (r *IndexTokenRequest) Validate() error {
	if !common.IsHexAddress(r.ContractAddress) {
		return errors.New("contract_address must be a hex address")
	}
	if r.TokenID == "" {
		return errors.New("token_id is required")
	}
	if !common.IsHexAddress(r.OwnerAddress) {
		return errors.New("owner_address must be a hex address")
	}
	if r.CreatorAddress != "" && !common.IsHexAddress(r.CreatorAddress) {
		return errors.New("creator_address must be a hex address")
	}
	if r.RoyaltyBasisPoint < 0 || r.RoyaltyBasisPoint > domain.MaxRoyaltyBasisPoints {
		return errors.New("royalty_basis_point out of range")
	}
	if r.ImageCID != "" && !uri.ValidCID(r.ImageCID) {
		return errors.New("image_cid is not a valid CID")
	}
	if r.MetadataCID != "" && !uri.ValidCID(r.MetadataCID) {
		return errors.New("metadata_cid is not a valid CID")
	}
	return nil
}

// CreateListingRequest is the body of POST /api/v1/listings
type CreateListingRequest struct {
	ContractAddress string `json:"contract_address"`
	TokenID         string `json:"token_id"`
	SellerAddress   string `json:"seller_address"`
	PriceWei        string `json:"price_wei"`
	TxHash          string `json:"tx_hash"`
}

func (r *CreateListingRequest) Validate() error {
	if !common.IsHexAddress(r.ContractAddress) {
		return errors.New("contract_address must be a hex address")
	}
	if r.TokenID == "" {
		return errors.New("token_id is required")
	}
	if !common.IsHexAddress(r.SellerAddress) {
		return errors.New("seller_address must be a hex address")
	}
	if r.PriceWei == "" {
		return errors.New("price_wei is required")
	}
	return nil
}

// RecordSaleRequest is the body of POST /api/v1/sales
type RecordSaleRequest struct {
	ContractAddress string     `json:"contract_address"`
	TokenID         string     `json:"token_id"`
	SellerAddress   string     `json:"seller_address"`
	BuyerAddress    string     `json:"buyer_address"`
	PriceWei        string     `json:"price_wei"`
	TxHash          string     `json:"tx_hash"`
	LogIndex        uint       `json:"log_index"`
	BlockNumber     uint64     `json:"block_number"`
	SoldAt          *time.Time `json:"sold_at,omitempty"`
}

func (r *RecordSaleRequest) Validate() error {
	if !common.IsHexAddress(r.ContractAddress) {
		return errors.New("contract_address must be a hex address")
	}
	if r.TokenID == "" {
		return errors.New("token_id is required")
	}
	if !common.IsHexAddress(r.SellerAddress) {
		return errors.New("seller_address must be a hex address")
	}
	if !common.IsHexAddress(r.BuyerAddress) {
		return errors.New("buyer_address must be a hex address")
	}
	if r.PriceWei == "" {
		return errors.New("price_wei is required")
	}
	if r.TxHash == "" {
		return errors.New("tx_hash is required")
	}
	return nil
}

// UpdateProfileRequest is the body of PUT /api/v1/profiles/:wallet
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarCID   string `json:"avatar_cid"`
}

func (r *UpdateProfileRequest) Validate() error {
	if len(r.DisplayName) > 128 {
		return errors.New("display_name too long")
	}
	if len(r.Bio) > 2048 {
		return errors.New("bio too long")
	}
	if r.AvatarCID != "" && !uri.ValidCID(r.AvatarCID) {
		return errors.New("avatar_cid is not a valid CID")
	}
	return nil
}

// ChallengeRequest is the body of POST /api/v1/auth/challenge
type ChallengeRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// ChallengeResponse carries the message the wallet must sign
type ChallengeResponse struct {
	WalletAddress string `json:"wallet_address"`
	Message       string `json:"message"`
}

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
}

// LoginResponse confirms a wallet session was established
type LoginResponse struct {
	WalletAddress string `json:"wallet_address"`
	Authenticated bool   `json:"authenticated"`
}

// ListingResponse represents an active listing
type ListingResponse struct {
	SellerAddress string    `json:"seller_address"`
	PriceWei      string    `json:"price_wei"`
	TxHash        string    `json:"tx_hash,omitempty"`
	ListedAt      time.Time `json:"listed_at"`
}

// SaleResponse confirms a settled purchase was recorded
type SaleResponse struct {
	ContractAddress string    `json:"contract_address"`
	TokenID         string    `json:"token_id"`
	SellerAddress   string    `json:"seller_address"`
	BuyerAddress    string    `json:"buyer_address"`
	PriceWei        string    `json:"price_wei"`
	TxHash          string    `json:"tx_hash"`
	SoldAt          time.Time `json:"sold_at"`
}

// NFTResponse represents an indexed token
type NFTResponse struct {
	ContractAddress   string           `json:"contract_address"`
	TokenID           string           `json:"token_id"`
	Name              string           `json:"name,omitempty"`
	Description       string           `json:"description,omitempty"`
	ImageCID          string           `json:"image_cid,omitempty"`
	MetadataCID       string           `json:"metadata_cid,omitempty"`
	CreatorAddress    string           `json:"creator_address,omitempty"`
	OwnerAddress      string           `json:"owner_address"`
	RoyaltyBasisPoint int64            `json:"royalty_basis_point"`
	Burned            bool             `json:"burned"`
	LastTransferAt    time.Time        `json:"last_transfer_at"`
	Listing           *ListingResponse `json:"listing,omitempty"`
}

// NFTListResponse is a paginated token list
type NFTListResponse struct {
	NFTs   []NFTResponse `json:"nfts"`
	Total  uint64        `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ProfileResponse represents a wallet profile
type ProfileResponse struct {
	WalletAddress string    `json:"wallet_address"`
	DisplayName   string    `json:"display_name,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	AvatarCID     string    `json:"avatar_cid,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toListingResponse(listing *schema.Listing) *ListingResponse {
	if listing == nil {
		return nil
	}
	return &ListingResponse{
		SellerAddress: listing.SellerAddress,
		PriceWei:      listing.PriceWei,
		TxHash:        listing.TxHash,
		ListedAt:      listing.CreatedAt,
	}
}

func toNFTResponse(nft *schema.NFT, listing *schema.Listing) NFTResponse {
	return NFTResponse{
		ContractAddress:   nft.ContractAddress,
		TokenID:           nft.TokenID,
		Name:              nft.Name,
		Description:       nft.Description,
		ImageCID:          nft.ImageCID,
		MetadataCID:       nft.MetadataCID,
		CreatorAddress:    nft.CreatorAddress,
		OwnerAddress:      nft.OwnerAddress,
		RoyaltyBasisPoint: nft.RoyaltyBasisPoint,
		Burned:            nft.Burned,
		LastTransferAt:    nft.LastTransferAt,
		Listing:           toListingResponse(listing),
	}
}

func toNFTListResponse(rows []*store.NFTWithListing, total uint64, limit, offset int) NFTListResponse {
	nfts := make([]NFTResponse, 0, len(rows))
	for _, row := range rows {
		nfts = append(nfts, toNFTResponse(row.NFT, row.Listing))
	}
	return NFTListResponse{
		NFTs:   nfts,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

func toProfileResponse(profile *schema.Profile) ProfileResponse {
	return ProfileResponse{
		WalletAddress: profile.WalletAddress,
		DisplayName:   profile.DisplayName,
		Bio:           profile.Bio,
		AvatarCID:     profile.AvatarCID,
		UpdatedAt:     profile.UpdatedAt,
	}
}
