package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/uri"
)

// TokenMetadata is the document pinned for each minted token.
// Image carries the ipfs:// URI of the pinned asset.
type TokenMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Creator     string `json:"creator,omitempty"`
	RoyaltyBPS  int64  `json:"royalty_bps,omitempty"`
}

// Config holds pinning service configuration
type Config struct {
	APIURL       string
	APIKey       string
	APISecret    string
	MaxAssetSize int64
}

// Client pins content to IPFS through a Pinata-style pinning API
//
//go:generate mockgen -source=client.go -destination=../mocks/content.go -package=mocks -mock_names=Client=MockContentClient
type Client interface {
	// UploadAsset pins raw bytes and returns the ipfs:// URI.
	// contentType may be empty, the payload is sniffed in that case.
	UploadAsset(ctx context.Context, data []byte, contentType string, filename string) (string, error)

	// UploadMetadata pins a metadata document and returns the ipfs:// URI
	UploadMetadata(ctx context.Context, metadata TokenMetadata) (string, error)
}

type client struct {
	httpClient adapter.HTTPClient
	config     *Config
}

// NewClient creates a pinning service client
func NewClient(httpClient adapter.HTTPClient, config *Config) Client {
	return &client{
		httpClient: httpClient,
		config:     config,
	}
}

// pinResponse is the pinning API's response envelope
type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (c *client) authHeaders() map[string]string {
	return map[string]string{
		"pinata_api_key":        c.config.APIKey,
		"pinata_secret_api_key": c.config.APISecret,
	}
}

// UploadAsset pins raw bytes and returns the ipfs:// URI
func (c *client) UploadAsset(ctx context.Context, data []byte, contentType string, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty asset")
	}
	if c.config.MaxAssetSize > 0 && int64(len(data)) > c.config.MaxAssetSize {
		return "", fmt.Errorf("asset too large: %d bytes (max %d)", len(data), c.config.MaxAssetSize)
	}

	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	if filename == "" {
		filename = "asset" + mimetype.Detect(data).Extension()
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	respBody, err := c.httpClient.Post(ctx,
		c.config.APIURL+"/pinning/pinFileToIPFS",
		writer.FormDataContentType(),
		c.authHeaders(),
		&body)
	if err != nil {
		return "", fmt.Errorf("failed to pin asset: %w", err)
	}

	var resp pinResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if !uri.ValidCID(resp.IpfsHash) {
		return "", fmt.Errorf("pin response carries invalid cid: %q", resp.IpfsHash)
	}

	logger.InfoCtx(ctx, "pinned asset",
		zap.String("cid", resp.IpfsHash),
		zap.String("contentType", contentType),
		zap.Int("size", len(data)))

	return uri.IPFSURI(resp.IpfsHash), nil
}

// UploadMetadata pins a metadata document and returns the ipfs:// URI
func (c *client) UploadMetadata(ctx context.Context, metadata TokenMetadata) (string, error) {
	if metadata.Image == "" {
		return "", fmt.Errorf("metadata image is required")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"pinataContent": metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	respBody, err := c.httpClient.Post(ctx,
		c.config.APIURL+"/pinning/pinJSONToIPFS",
		"application/json",
		c.authHeaders(),
		bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to pin metadata: %w", err)
	}

	var resp pinResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if !uri.ValidCID(resp.IpfsHash) {
		return "", fmt.Errorf("pin response carries invalid cid: %q", resp.IpfsHash)
	}

	logger.InfoCtx(ctx, "pinned metadata", zap.String("cid", resp.IpfsHash), zap.String("name", metadata.Name))

	return uri.IPFSURI(resp.IpfsHash), nil
}
