package rest

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/api/middleware"
	"github.com/arcnft/marketplace-sync/internal/auth"
	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/store"
	"github.com/arcnft/marketplace-sync/internal/store/schema"
	"github.com/arcnft/marketplace-sync/internal/uri"
)

// Pinned content never changes, so clients may cache it for a year
const contentCacheControl = "public, max-age=31536000, immutable"

// ContentProxyConfig holds the gateways the content proxy fetches from
type ContentProxyConfig struct {
	GatewayURL    string // Primary (dedicated) gateway
	GatewayToken  string // Bearer token for the primary gateway, optional
	PublicGateway string // Fallback
}

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetContent proxies pinned content by CID, preferring the dedicated
	// gateway and falling back to the public one
	// GET /api/v1/content/:cid
	GetContent(c *gin.Context)

	// IndexToken upserts a token record (requires API key authentication)
	// POST /api/v1/index
	IndexToken(c *gin.Context)

	// CreateListing records a settled listing (requires API key authentication)
	// POST /api/v1/listings
	CreateListing(c *gin.Context)

	// RecordSale records a settled purchase (requires API key authentication)
	// POST /api/v1/sales
	RecordSale(c *gin.Context)

	// ListNFTs retrieves tokens with optional filters
	// GET /api/v1/nfts?owner=<address>&creator=<address>&listed=<bool>&include_burned=<bool>&limit=<limit>&offset=<offset>
	ListNFTs(c *gin.Context)

	// GetNFT retrieves a single token
	// GET /api/v1/nfts/:contract/:token
	GetNFT(c *gin.Context)

	// GetProfile retrieves a wallet profile (public read access)
	// GET /api/v1/profiles/:wallet
	GetProfile(c *gin.Context)

	// UpdateProfile updates the caller's own profile (requires wallet session)
	// PUT /api/v1/profiles/:wallet
	UpdateProfile(c *gin.Context)

	// Challenge issues a signing challenge for a wallet
	// POST /api/v1/auth/challenge
	Challenge(c *gin.Context)

	// Login verifies a signed challenge and opens a wallet session
	// POST /api/v1/auth/login
	Login(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store      store.Store
	gate       auth.Gate
	httpClient adapter.HTTPClient
	contentCfg ContentProxyConfig
}

// NewHandler creates a new REST API handler
func NewHandler(st store.Store, gate auth.Gate, httpClient adapter.HTTPClient, contentCfg ContentProxyConfig) Handler {
	return &handler{
		store:      st,
		gate:       gate,
		httpClient: httpClient,
		contentCfg: contentCfg,
	}
}

// GetContent proxies pinned content by CID
func (h *handler) GetContent(c *gin.Context) {
	cid := c.Param("cid")
	if !uri.ValidCID(cid) {
		respondBadRequest(c, "Invalid CID")
		return
	}

	ctx := c.Request.Context()

	// Try the dedicated gateway first
	var headers map[string]string
	if h.contentCfg.GatewayToken != "" {
		headers = map[string]string{"Authorization": "Bearer " + h.contentCfg.GatewayToken}
	}

	resp, err := h.httpClient.GetResponse(ctx, uri.GatewayURL(h.contentCfg.GatewayURL, cid), headers)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			_ = resp.Body.Close()
		}
		logger.WarnCtx(ctx, "primary gateway fetch failed, trying public gateway",
			zap.Error(err), zap.String("cid", cid))

		resp, err = h.httpClient.GetResponse(ctx, uri.GatewayURL(h.contentCfg.PublicGateway, cid), nil)
		if err != nil || resp.StatusCode != http.StatusOK {
			if resp != nil {
				_ = resp.Body.Close()
			}
			respondUpstreamError(c, "Content unavailable", cid)
			return
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Cache-Control", contentCacheControl)
	c.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, nil)
}

// IndexToken upserts a token record
func (h *handler) IndexToken(c *gin.Context) {
	var req IndexTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nft, err := h.store.UpsertNFT(c.Request.Context(), store.UpsertNFTInput{
		ContractAddress:   req.ContractAddress,
		TokenID:           req.TokenID,
		Name:              req.Name,
		Description:       req.Description,
		ImageCID:          req.ImageCID,
		MetadataCID:       req.MetadataCID,
		CreatorAddress:    req.CreatorAddress,
		OwnerAddress:      req.OwnerAddress,
		RoyaltyBasisPoint: req.RoyaltyBasisPoint,
		LastTransferAt:    time.Now().UTC(),
	})
	if err != nil {
		respondInternalError(c, err, "Failed to index token")
		return
	}

	c.JSON(http.StatusCreated, toNFTResponse(nft, nil))
}

// CreateListing records a settled listing
func (h *handler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	priceWei, ok := new(big.Int).SetString(req.PriceWei, 10)
	if !ok || priceWei.Sign() <= 0 {
		respondValidationError(c, "price_wei must be a positive integer")
		return
	}

	listing, err := h.store.CreateListing(c.Request.Context(), store.CreateListingInput{
		ContractAddress: req.ContractAddress,
		TokenID:         req.TokenID,
		SellerAddress:   req.SellerAddress,
		PriceWei:        priceWei.String(),
		TxHash:          req.TxHash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNFTNotFound) {
			respondNotFound(c, "Token not found")
			return
		}
		respondInternalError(c, err, "Failed to create listing")
		return
	}

	c.JSON(http.StatusCreated, toListingResponse(listing))
}

// RecordSale records a settled purchase
func (h *handler) RecordSale(c *gin.Context) {
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	priceWei, ok := new(big.Int).SetString(req.PriceWei, 10)
	if !ok || priceWei.Sign() <= 0 {
		respondValidationError(c, "price_wei must be a positive integer")
		return
	}

	soldAt := time.Now().UTC()
	if req.SoldAt != nil {
		soldAt = req.SoldAt.UTC()
	}

	err := h.store.RecordSale(c.Request.Context(), store.RecordSaleInput{
		ContractAddress: req.ContractAddress,
		TokenID:         req.TokenID,
		SellerAddress:   req.SellerAddress,
		BuyerAddress:    req.BuyerAddress,
		PriceWei:        priceWei.String(),
		TxHash:          req.TxHash,
		LogIndex:        req.LogIndex,
		BlockNumber:     req.BlockNumber,
		SoldAt:          soldAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNFTNotFound) {
			respondNotFound(c, "Token not found")
			return
		}
		respondInternalError(c, err, "Failed to record sale")
		return
	}

	c.JSON(http.StatusCreated, SaleResponse{
		ContractAddress: req.ContractAddress,
		TokenID:         req.TokenID,
		SellerAddress:   req.SellerAddress,
		BuyerAddress:    req.BuyerAddress,
		PriceWei:        priceWei.String(),
		TxHash:          req.TxHash,
		SoldAt:          soldAt,
	})
}

// ListNFTs retrieves tokens with optional filters
func (h *handler) ListNFTs(c *gin.Context) {
	queryParams, err := ParseListNFTsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, total, err := h.store.GetNFTs(c.Request.Context(), store.NFTQueryFilter{
		OwnerAddress:   queryParams.Owner,
		CreatorAddress: queryParams.Creator,
		ListedOnly:     queryParams.ListedOnly,
		IncludeBurned:  queryParams.IncludeBurned,
		Limit:          queryParams.Limit,
		Offset:         queryParams.Offset,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to list tokens")
		return
	}

	c.JSON(http.StatusOK, toNFTListResponse(rows, total, queryParams.Limit, queryParams.Offset))
}

// GetNFT retrieves a single token
func (h *handler) GetNFT(c *gin.Context) {
	contract := c.Param("contract")
	tokenID := c.Param("token")

	if !common.IsHexAddress(contract) {
		respondBadRequest(c, "Invalid contract address")
		return
	}
	if tokenID == "" {
		respondBadRequest(c, "Token ID is required")
		return
	}

	ctx := c.Request.Context()

	nft, err := h.store.GetNFT(ctx, contract, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrNFTNotFound) {
			respondNotFound(c, "Token not found")
			return
		}
		respondInternalError(c, err, "Failed to get token")
		return
	}

	listing, err := h.store.GetActiveListing(ctx, contract, tokenID)
	if err != nil && !errors.Is(err, domain.ErrListingNotFound) {
		respondInternalError(c, err, "Failed to get listing")
		return
	}

	c.JSON(http.StatusOK, toNFTResponse(nft, listing))
}

// GetProfile retrieves a wallet profile
func (h *handler) GetProfile(c *gin.Context) {
	wallet := c.Param("wallet")
	if !common.IsHexAddress(wallet) {
		respondBadRequest(c, "Invalid wallet address")
		return
	}

	profile, err := h.store.GetProfile(c.Request.Context(), wallet)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			respondNotFound(c, "Profile not found")
			return
		}
		respondInternalError(c, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile updates the caller's own profile
func (h *handler) UpdateProfile(c *gin.Context) {
	wallet := c.Param("wallet")
	if !common.IsHexAddress(wallet) {
		respondBadRequest(c, "Invalid wallet address")
		return
	}

	// A session only lets a wallet edit its own record
	authedWallet := middleware.AuthenticatedWallet(c)
	if err := h.gate.RequireWallet(authedWallet, wallet); err != nil {
		if errors.Is(err, domain.ErrWalletMismatch) {
			respondForbidden(c, "Cannot modify another wallet's profile")
			return
		}
		respondUnauthorized(c, "Wallet session expired")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	profile, err := h.store.UpsertProfile(c.Request.Context(), schema.Profile{
		WalletAddress: wallet,
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		AvatarCID:     req.AvatarCID,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Challenge issues a signing challenge for a wallet
func (h *handler) Challenge(c *gin.Context) {
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	message, err := h.gate.Challenge(req.WalletAddress)
	if err != nil {
		respondBadRequest(c, "Failed to issue challenge", err.Error())
		return
	}

	c.JSON(http.StatusOK, ChallengeResponse{
		WalletAddress: req.WalletAddress,
		Message:       message,
	})
}

// Login verifies a signed challenge and opens a wallet session
func (h *handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := h.gate.Authenticate(req.WalletAddress, req.Signature); err != nil {
		logger.WarnCtx(c.Request.Context(), "wallet login rejected",
			zap.String("wallet", req.WalletAddress), zap.Error(err))
		respondUnauthorized(c, "Authentication failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		WalletAddress: req.WalletAddress,
		Authenticated: true,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "marketplace-sync-api",
	})
}
