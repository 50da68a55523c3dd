package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcnft/marketplace-sync/internal/api/middleware"
	"github.com/arcnft/marketplace-sync/internal/api/rest"
	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/mocks"
	"github.com/arcnft/marketplace-sync/internal/store"
	"github.com/arcnft/marketplace-sync/internal/store/schema"
)

const (
	testAPIKey   = "test-api-key"
	testWallet   = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	testContract = "0x1234567890AbcdEF1234567890aBcdef12345678"
	testCID      = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

	testPrimaryGateway = "https://gateway.example.com"
	testPublicGateway  = "https://ipfs.io"
	testGatewayToken   = "gw-token"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testEnv struct {
	store  *mocks.MockStore
	gate   *mocks.MockGate
	http   *mocks.MockHTTPClient
	router *gin.Engine
}

func newTestEnv(ctrl *gomock.Controller) *testEnv {
	env := &testEnv{
		store: mocks.NewMockStore(ctrl),
		gate:  mocks.NewMockGate(ctrl),
		http:  mocks.NewMockHTTPClient(ctrl),
	}

	handler := rest.NewHandler(env.store, env.gate, env.http, rest.ContentProxyConfig{
		GatewayURL:    testPrimaryGateway,
		GatewayToken:  testGatewayToken,
		PublicGateway: testPublicGateway,
	})

	env.router = gin.New()
	rest.SetupRoutes(env.router, handler, middleware.AuthConfig{APIKeys: []string{testAPIKey}}, env.gate)
	return env
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// apiError mirrors the wire shape of the handler's error responses
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func gatewayResponse(status int, contentType string, data []byte) *http.Response {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		ContentLength: int64(len(data)),
		Body:          io.NopCloser(bytes.NewReader(data)),
	}
}

func TestGetContent_PrimaryGateway(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(ctrl)

	payload := []byte("pinned bytes")
	env.http.EXPECT().
		GetResponse(gomock.Any(), testPrimaryGateway+"/ipfs/"+testCID,
			map[string]string{"Authorization": "Bearer " + testGatewayToken}).
		Return(gatewayResponse(http.StatusOK, "image/png", payload), nil)

	w := env.request(t, http.MethodGet, "/api/v1/content/"+testCID, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
}

func TestGetContent_FallsBackToPublicGateway(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(ctrl)

	payload := []byte(`{"name":"Solitude #7"}`)
	gomock.InOrder(
		env.http.EXPECT().
			GetResponse(gomock.Any(), testPrimaryGateway+"/ipfs/"+testCID, gomock.Any()).
			Return(nil, errors.New("connection refused")),
		env.http.EXPECT().
			GetResponse(gomock.Any(), testPublicGateway+"/ipfs/"+testCID, nil).
			Return(gatewayResponse(http.StatusOK, "application/json", payload), nil),
	)

	w := env.request(t, http.MethodGet, "/api/v1/content/"+testCID, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
}

func TestGetContent_PrimaryNon200TriggersFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(ctrl)

	payload := []byte("bytes")
	gomock.InOrder(
		env.http.EXPECT().
			GetResponse(gomock.Any(), testPrimaryGateway+"/ipfs/"+testCID, gomock.Any()).
			Return(gatewayResponse(http.StatusTooManyRequests, "", nil), nil),
		env.http.EXPECT().
			GetResponse(gomock.Any(), testPublicGateway+"/ipfs/"+testCID, nil).
			Return(gatewayResponse(http.StatusOK, "", payload), nil),
	)

	w := env.request(t, http.MethodGet, "/api/v1/content/"+testCID, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}

func TestGetContent_BothGatewaysFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(ctrl)

	env.http.EXPECT().
		GetResponse(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("unreachable")).
		Times(2)

	w := env.request(t, http.MethodGet, "/api/v1/content/"+testCID, nil, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "upstream_error", e.Error.Code)
	assert.Equal(t, testCID, e.Error.Details)
}

func TestGetContent_InvalidCID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(ctrl)

	w := env.request(t, http.MethodGet, "/api/v1/content/not-a-cid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", decodeError(t, w).Error.Code)
}

func validIndexRequest() map[string]interface{} {
	return map[string]interface{}{
		"contract_address":    testContract,
		"token_id":            "42",
		"name":                "Solitude #7",
		"description":         "Generative study",
		"image_cid":           testCID,
		"metadata_cid":        testCID,
		"creator_address":     testWallet,
		"owner_address":       testWallet,
		"royalty_basis_point": 500,
	}
}

func apiKeyHeader() map[string]string {
	return map[string]string{"Authorization": "apikey " + testAPIKey}
}

func TestIndexToken(t *testing.T) {
	testCases := []struct {
		name         string
		body         map[string]interface{}
		headers      map[string]string
		setupMocks   func(*mocks.MockStore)
		expectedCode int
		expectedErr  string
	}{
		{
			name:    "successful index write",
			body:    validIndexRequest(),
			headers: apiKeyHeader(),
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					UpsertNFT(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, input store.UpsertNFTInput) (*schema.NFT, error) {
						assert.Equal(t, testContract, input.ContractAddress)
						assert.Equal(t, "42", input.TokenID)
						assert.Equal(t, "Solitude #7", input.Name)
						assert.Equal(t, testCID, input.ImageCID)
						assert.Equal(t, testWallet, input.OwnerAddress)
						assert.Equal(t, int64(500), input.RoyaltyBasisPoint)
						assert.WithinDuration(t, time.Now().UTC(), input.LastTransferAt, 5*time.Second)
						return &schema.NFT{
							ContractAddress:   input.ContractAddress,
							TokenID:           input.TokenID,
							Name:              input.Name,
							OwnerAddress:      input.OwnerAddress,
							RoyaltyBasisPoint: input.RoyaltyBasisPoint,
							LastTransferAt:    input.LastTransferAt,
						}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "missing API key",
			body: validIndexRequest(),
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "invalid contract address",
			body: func() map[string]interface{} {
				b := validIndexRequest()
				b["contract_address"] = "0xnope"
				return b
			}(),
			headers: apiKeyHeader(),
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "contract_address must be a hex address",
		},
		{
			name: "royalty out of range",
			body: func() map[string]interface{} {
				b := validIndexRequest()
				b["royalty_basis_point"] = 1500
				return b
			}(),
			headers: apiKeyHeader(),
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "royalty_basis_point out of range",
		},
		{
			name: "bad image CID",
			body: func() map[string]interface{} {
				b := validIndexRequest()
				b["image_cid"] = "http://example.com/cat.png"
				return b
			}(),
			headers: apiKeyHeader(),
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "image_cid is not a valid CID",
		},
		{
			name:    "store failure",
			body:    validIndexRequest(),
			headers: apiKeyHeader(),
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					UpsertNFT(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection reset"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.store)

			w := env.request(t, http.MethodPost, "/api/v1/index", tc.body, tc.headers)

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedErr != "" {
				assert.Contains(t, decodeError(t, w).Error.Details, tc.expectedErr)
			}
			if tc.expectedCode == http.StatusCreated {
				var resp rest.NFTResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, testContract, resp.ContractAddress)
				assert.Equal(t, "42", resp.TokenID)
				assert.Nil(t, resp.Listing)
			}
		})
	}
}

func TestCreateListing(t *testing.T) {
	validBody := map[string]interface{}{
		"contract_address": testContract,
		"token_id":         "42",
		"seller_address":   testWallet,
		"price_wei":        "500000000000000000",
		"tx_hash":          "0xabc123",
	}

	testCases := []struct {
		name         string
		body         map[string]interface{}
		setupMocks   func(*mocks.MockStore)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "successful listing",
			body: validBody,
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					CreateListing(gomock.Any(), store.CreateListingInput{
						ContractAddress: testContract,
						TokenID:         "42",
						SellerAddress:   testWallet,
						PriceWei:        "500000000000000000",
						TxHash:          "0xabc123",
					}).
					Return(&schema.Listing{
						SellerAddress: testWallet,
						PriceWei:      "500000000000000000",
						Active:        true,
						TxHash:        "0xabc123",
					}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "price not a positive integer",
			body: map[string]interface{}{
				"contract_address": testContract,
				"token_id":         "42",
				"seller_address":   testWallet,
				"price_wei":        "0.5 ETH",
			},
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "price_wei must be a positive integer",
		},
		{
			name: "zero price rejected",
			body: map[string]interface{}{
				"contract_address": testContract,
				"token_id":         "42",
				"seller_address":   testWallet,
				"price_wei":        "0",
			},
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "price_wei must be a positive integer",
		},
		{
			name: "unknown token",
			body: validBody,
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					CreateListing(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrNFTNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.store)

			w := env.request(t, http.MethodPost, "/api/v1/listings", tc.body, apiKeyHeader())

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedErr != "" {
				assert.Contains(t, decodeError(t, w).Error.Details, tc.expectedErr)
			}
			if tc.expectedCode == http.StatusCreated {
				var resp rest.ListingResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, testWallet, resp.SellerAddress)
				assert.Equal(t, "500000000000000000", resp.PriceWei)
			}
		})
	}
}

func TestRecordSale(t *testing.T) {
	buyer := "0x8Ba1f109551bD432803012645Ac136ddd64DBA72"
	validBody := map[string]interface{}{
		"contract_address": testContract,
		"token_id":         "42",
		"seller_address":   testWallet,
		"buyer_address":    buyer,
		"price_wei":        "500000000000000000",
		"tx_hash":          "0xdef456",
		"log_index":        3,
		"block_number":     1200,
	}

	testCases := []struct {
		name         string
		body         map[string]interface{}
		headers      map[string]string
		setupMocks   func(*mocks.MockStore)
		expectedCode int
		expectedErr  string
	}{
		{
			name:    "successful sale",
			body:    validBody,
			headers: apiKeyHeader(),
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					RecordSale(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, input store.RecordSaleInput) error {
						assert.Equal(t, testContract, input.ContractAddress)
						assert.Equal(t, "42", input.TokenID)
						assert.Equal(t, testWallet, input.SellerAddress)
						assert.Equal(t, buyer, input.BuyerAddress)
						assert.Equal(t, "500000000000000000", input.PriceWei)
						assert.Equal(t, "0xdef456", input.TxHash)
						assert.Equal(t, uint(3), input.LogIndex)
						assert.Equal(t, uint64(1200), input.BlockNumber)
						assert.False(t, input.SoldAt.IsZero())
						return nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "missing api key",
			body:         validBody,
			headers:      nil,
			setupMocks:   func(st *mocks.MockStore) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "missing tx hash",
			body: map[string]interface{}{
				"contract_address": testContract,
				"token_id":         "42",
				"seller_address":   testWallet,
				"buyer_address":    buyer,
				"price_wei":        "500000000000000000",
			},
			headers:      apiKeyHeader(),
			setupMocks:   func(st *mocks.MockStore) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "tx_hash is required",
		},
		{
			name: "price not a positive integer",
			body: map[string]interface{}{
				"contract_address": testContract,
				"token_id":         "42",
				"seller_address":   testWallet,
				"buyer_address":    buyer,
				"price_wei":        "-1",
				"tx_hash":          "0xdef456",
			},
			headers:      apiKeyHeader(),
			setupMocks:   func(st *mocks.MockStore) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "price_wei must be a positive integer",
		},
		{
			name:    "unknown token",
			body:    validBody,
			headers: apiKeyHeader(),
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					RecordSale(gomock.Any(), gomock.Any()).
					Return(domain.ErrNFTNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.store)

			w := env.request(t, http.MethodPost, "/api/v1/sales", tc.body, tc.headers)

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedErr != "" {
				assert.Contains(t, decodeError(t, w).Error.Details, tc.expectedErr)
			}
			if tc.expectedCode == http.StatusCreated {
				var resp rest.SaleResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, buyer, resp.BuyerAddress)
				assert.Equal(t, "0xdef456", resp.TxHash)
			}
		})
	}
}

func TestListNFTs(t *testing.T) {
	row := &store.NFTWithListing{
		NFT: &schema.NFT{
			ContractAddress: testContract,
			TokenID:         "7",
			Name:            "Solitude #7",
			OwnerAddress:    testWallet,
		},
		Listing: &schema.Listing{
			SellerAddress: testWallet,
			PriceWei:      "1000000000000000000",
			Active:        true,
		},
	}

	testCases := []struct {
		name         string
		query        string
		setupMocks   func(*mocks.MockStore)
		expectedCode int
		verify       func(t *testing.T, resp rest.NFTListResponse)
	}{
		{
			name:  "owner filter with pagination",
			query: "?owner=" + testWallet + "&listed=true&limit=5&offset=10",
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					GetNFTs(gomock.Any(), store.NFTQueryFilter{
						OwnerAddress: testWallet,
						ListedOnly:   true,
						Limit:        5,
						Offset:       10,
					}).
					Return([]*store.NFTWithListing{row}, uint64(37), nil)
			},
			expectedCode: http.StatusOK,
			verify: func(t *testing.T, resp rest.NFTListResponse) {
				require.Len(t, resp.NFTs, 1)
				assert.Equal(t, "7", resp.NFTs[0].TokenID)
				require.NotNil(t, resp.NFTs[0].Listing)
				assert.Equal(t, "1000000000000000000", resp.NFTs[0].Listing.PriceWei)
				assert.Equal(t, uint64(37), resp.Total)
				assert.Equal(t, 5, resp.Limit)
				assert.Equal(t, 10, resp.Offset)
			},
		},
		{
			name:  "oversized limit capped",
			query: "?limit=500",
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					GetNFTs(gomock.Any(), store.NFTQueryFilter{Limit: 100}).
					Return(nil, uint64(0), nil)
			},
			expectedCode: http.StatusOK,
			verify: func(t *testing.T, resp rest.NFTListResponse) {
				assert.Equal(t, 100, resp.Limit)
				assert.Empty(t, resp.NFTs)
			},
		},
		{
			name:  "defaults applied",
			query: "",
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().
					GetNFTs(gomock.Any(), store.NFTQueryFilter{Limit: 20}).
					Return(nil, uint64(0), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "invalid owner address",
			query: "?owner=not-an-address",
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.store)

			w := env.request(t, http.MethodGet, "/api/v1/nfts"+tc.query, nil, nil)

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.verify != nil && w.Code == http.StatusOK {
				var resp rest.NFTListResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				tc.verify(t, resp)
			}
		})
	}
}

func TestGetNFT(t *testing.T) {
	nft := &schema.NFT{
		ContractAddress: testContract,
		TokenID:         "7",
		OwnerAddress:    testWallet,
	}

	testCases := []struct {
		name         string
		path         string
		setupMocks   func(*mocks.MockStore)
		expectedCode int
		wantListing  bool
	}{
		{
			name: "token with active listing",
			path: "/api/v1/nfts/" + testContract + "/7",
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().GetNFT(gomock.Any(), testContract, "7").Return(nft, nil)
				st.EXPECT().GetActiveListing(gomock.Any(), testContract, "7").
					Return(&schema.Listing{SellerAddress: testWallet, PriceWei: "100"}, nil)
			},
			expectedCode: http.StatusOK,
			wantListing:  true,
		},
		{
			name: "unlisted token still returned",
			path: "/api/v1/nfts/" + testContract + "/7",
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().GetNFT(gomock.Any(), testContract, "7").Return(nft, nil)
				st.EXPECT().GetActiveListing(gomock.Any(), testContract, "7").
					Return(nil, domain.ErrListingNotFound)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "unknown token",
			path: "/api/v1/nfts/" + testContract + "/999",
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().GetNFT(gomock.Any(), testContract, "999").
					Return(nil, domain.ErrNFTNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "invalid contract address",
			path: "/api/v1/nfts/not-hex/7",
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.store)

			w := env.request(t, http.MethodGet, tc.path, nil, nil)

			assert.Equal(t, tc.expectedCode, w.Code)
			if w.Code == http.StatusOK {
				var resp rest.NFTResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "7", resp.TokenID)
				assert.Equal(t, tc.wantListing, resp.Listing != nil)
			}
		})
	}
}

func TestGetProfile(t *testing.T) {
	testCases := []struct {
		name         string
		wallet       string
		setupMocks   func(*mocks.MockStore)
		expectedCode int
	}{
		{
			name:   "existing profile",
			wallet: testWallet,
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().GetProfile(gomock.Any(), testWallet).
					Return(&schema.Profile{WalletAddress: testWallet, DisplayName: "alice"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "missing profile",
			wallet: testWallet,
			setupMocks: func(st *mocks.MockStore) {
				st.EXPECT().GetProfile(gomock.Any(), testWallet).
					Return(nil, domain.ErrProfileNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "invalid wallet",
			wallet: "alice.eth",
			setupMocks: func(st *mocks.MockStore) {
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.store)

			w := env.request(t, http.MethodGet, "/api/v1/profiles/"+tc.wallet, nil, nil)

			assert.Equal(t, tc.expectedCode, w.Code)
			if w.Code == http.StatusOK {
				var resp rest.ProfileResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "alice", resp.DisplayName)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	body := map[string]interface{}{
		"display_name": "alice",
		"bio":          "collector",
	}

	testCases := []struct {
		name         string
		headers      map[string]string
		setupMocks   func(*mocks.MockStore, *mocks.MockGate)
		expectedCode int
		expectedErr  string
	}{
		{
			name:    "successful update",
			headers: map[string]string{middleware.WalletHeader: testWallet},
			setupMocks: func(st *mocks.MockStore, gate *mocks.MockGate) {
				gate.EXPECT().IsAuthenticated(testWallet).Return(true)
				gate.EXPECT().RequireWallet(testWallet, testWallet).Return(nil)
				st.EXPECT().
					UpsertProfile(gomock.Any(), schema.Profile{
						WalletAddress: testWallet,
						DisplayName:   "alice",
						Bio:           "collector",
					}).
					Return(&schema.Profile{
						WalletAddress: testWallet,
						DisplayName:   "alice",
						Bio:           "collector",
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "missing wallet header",
			setupMocks: func(st *mocks.MockStore, gate *mocks.MockGate) {
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:    "no wallet session",
			headers: map[string]string{middleware.WalletHeader: testWallet},
			setupMocks: func(st *mocks.MockStore, gate *mocks.MockGate) {
				gate.EXPECT().IsAuthenticated(testWallet).Return(false)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:    "editing another wallet's profile",
			headers: map[string]string{middleware.WalletHeader: testContract},
			setupMocks: func(st *mocks.MockStore, gate *mocks.MockGate) {
				gate.EXPECT().IsAuthenticated(testContract).Return(true)
				gate.EXPECT().RequireWallet(testContract, testWallet).
					Return(domain.ErrWalletMismatch)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:    "session expired between middleware and handler",
			headers: map[string]string{middleware.WalletHeader: testWallet},
			setupMocks: func(st *mocks.MockStore, gate *mocks.MockGate) {
				gate.EXPECT().IsAuthenticated(testWallet).Return(true)
				gate.EXPECT().RequireWallet(testWallet, testWallet).
					Return(domain.ErrSessionExpired)
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.store, env.gate)

			w := env.request(t, http.MethodPut, "/api/v1/profiles/"+testWallet, body, tc.headers)

			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

func TestUpdateProfile_RejectsLongDisplayName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(ctrl)

	env.gate.EXPECT().IsAuthenticated(testWallet).Return(true)
	env.gate.EXPECT().RequireWallet(testWallet, testWallet).Return(nil)

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	body := map[string]interface{}{"display_name": string(long)}

	w := env.request(t, http.MethodPut, "/api/v1/profiles/"+testWallet, body,
		map[string]string{middleware.WalletHeader: testWallet})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Details, "display_name too long")
}

func TestChallenge(t *testing.T) {
	testCases := []struct {
		name         string
		setupMocks   func(*mocks.MockGate)
		expectedCode int
	}{
		{
			name: "challenge issued",
			setupMocks: func(gate *mocks.MockGate) {
				gate.EXPECT().Challenge(testWallet).
					Return("Sign this message to authenticate: nonce", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "gate rejects wallet",
			setupMocks: func(gate *mocks.MockGate) {
				gate.EXPECT().Challenge(testWallet).
					Return("", errors.New("invalid wallet address"))
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.gate)

			w := env.request(t, http.MethodPost, "/api/v1/auth/challenge",
				map[string]interface{}{"wallet_address": testWallet}, nil)

			assert.Equal(t, tc.expectedCode, w.Code)
			if w.Code == http.StatusOK {
				var resp rest.ChallengeResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, testWallet, resp.WalletAddress)
				assert.Contains(t, resp.Message, "Sign this message")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	body := map[string]interface{}{
		"wallet_address": testWallet,
		"signature":      "0xdeadbeef",
	}

	testCases := []struct {
		name         string
		setupMocks   func(*mocks.MockGate)
		expectedCode int
	}{
		{
			name: "valid signature opens session",
			setupMocks: func(gate *mocks.MockGate) {
				gate.EXPECT().Authenticate(testWallet, "0xdeadbeef").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "bad signature rejected",
			setupMocks: func(gate *mocks.MockGate) {
				gate.EXPECT().Authenticate(testWallet, "0xdeadbeef").
					Return(errors.New("signature does not match wallet"))
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(ctrl)
			tc.setupMocks(env.gate)

			w := env.request(t, http.MethodPost, "/api/v1/auth/login", body, nil)

			assert.Equal(t, tc.expectedCode, w.Code)
			if w.Code == http.StatusOK {
				var resp rest.LoginResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.Authenticated)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(ctrl)

	w := env.request(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
