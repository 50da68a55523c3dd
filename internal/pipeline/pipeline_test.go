package pipeline_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/mocks"
	"github.com/arcnft/marketplace-sync/internal/pipeline"
	"github.com/arcnft/marketplace-sync/internal/store"
)

const (
	testCID         = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	testMetadataCID = "QmPZ9gcCEpqKTo6aq61g2nXGUhM4iCL3ewB6LDXZCtioEB"
	testCreator     = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

var (
	testContract    = common.HexToAddress("0x1234567890AbcdEF1234567890aBcdef12345678")
	testMarketplace = common.HexToAddress("0x5555555555555555555555555555555555555555")
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testDeps struct {
	content *mocks.MockContentClient
	chain   *mocks.MockChainClient
	store   *mocks.MockStore
	pub     *mocks.MockPublisher
}

func newTestPipeline(ctrl *gomock.Controller) (*pipeline.Pipeline, *testDeps) {
	deps := &testDeps{
		content: mocks.NewMockContentClient(ctrl),
		chain:   mocks.NewMockChainClient(ctrl),
		store:   mocks.NewMockStore(ctrl),
		pub:     mocks.NewMockPublisher(ctrl),
	}

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)).AnyTimes()

	deps.chain.EXPECT().ContractAddress().Return(testContract).AnyTimes()
	deps.chain.EXPECT().SignerAddress().Return(common.HexToAddress(testCreator)).AnyTimes()

	// Transaction records are best effort bookkeeping
	deps.store.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.store.EXPECT().UpdateTransactionStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	p := pipeline.NewPipeline(deps.content, deps.chain, deps.store, deps.pub, clock, pipeline.Config{
		Marketplace:    testMarketplace,
		ReceiptTimeout: time.Minute,
	})
	return p, deps
}

func successReceipt(block int64) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(block),
		GasUsed:     21000,
	}
}

func TestPipeline_RunWithListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	intent := domain.MintIntent{
		CreatorAddress:    testCreator,
		Name:              "Sunset",
		Description:       "A sunset",
		Price:             "0.5",
		RoyaltyBasisPoint: 500,
	}
	image := []byte{0x89, 0x50, 0x4E, 0x47}

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), image, "image/png", "").
		Return("ipfs://"+testCID, nil)
	deps.content.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return("ipfs://"+testMetadataCID, nil)

	// One free mint available, the mint carries no value
	deps.chain.EXPECT().
		FreeMintCount(gomock.Any(), common.HexToAddress(testCreator)).
		Return(big.NewInt(1), nil)

	mintTx := common.HexToHash("0x01")
	mintReceipt := successReceipt(100)
	deps.chain.EXPECT().
		SubmitMint(gomock.Any(), "ipfs://"+testMetadataCID, big.NewInt(0)).
		Return(mintTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), mintTx, time.Minute).
		Return(mintReceipt, nil)
	deps.chain.EXPECT().
		MintedTokenID(mintReceipt).
		Return(big.NewInt(42), nil)

	approveTx := common.HexToHash("0x02")
	deps.chain.EXPECT().
		SubmitApprove(gomock.Any(), testMarketplace, big.NewInt(42)).
		Return(approveTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), approveTx, time.Minute).
		Return(successReceipt(101), nil)

	listTx := common.HexToHash("0x03")
	halfEthWei := new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil))
	deps.chain.EXPECT().
		SubmitListItem(gomock.Any(), testContract, big.NewInt(42), halfEthWei).
		Return(listTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), listTx, time.Minute).
		Return(successReceipt(102), nil)

	indexed := make(chan struct{})
	deps.store.EXPECT().
		UpsertNFT(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.UpsertNFTInput) (interface{}, error) {
			assert.Equal(t, testContract.Hex(), input.ContractAddress)
			assert.Equal(t, "42", input.TokenID)
			assert.Equal(t, "Sunset", input.Name)
			assert.Equal(t, testCID, input.ImageCID)
			assert.Equal(t, testMetadataCID, input.MetadataCID)
			assert.Equal(t, int64(500), input.RoyaltyBasisPoint)
			return nil, nil
		})
	deps.store.EXPECT().
		CreateListing(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CreateListingInput) (interface{}, error) {
			assert.Equal(t, "42", input.TokenID)
			assert.Equal(t, halfEthWei.String(), input.PriceWei)
			assert.Equal(t, listTx.Hex(), input.TxHash)
			close(indexed)
			return nil, nil
		})

	result, err := p.Run(context.Background(), intent, image, "image/png")
	require.NoError(t, err)

	assert.Equal(t, pipeline.StateSuccess, p.State())
	assert.Equal(t, "42", result.TokenID)
	assert.Equal(t, "ipfs://"+testCID, result.ImageURI)
	assert.Equal(t, "ipfs://"+testMetadataCID, result.MetadataURI)
	assert.Equal(t, mintTx.Hex(), result.MintTxHash)
	assert.Equal(t, approveTx.Hex(), result.ApproveTxHash)
	assert.Equal(t, listTx.Hex(), result.ListTxHash)
	assert.True(t, result.Listed)
	assert.NotEmpty(t, result.RunID)

	select {
	case <-indexed:
	case <-time.After(2 * time.Second):
		t.Fatal("index write never happened")
	}
}

func TestPipeline_RunWithoutListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	intent := domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
	}
	image := []byte{0x89}

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), image, "", "").
		Return("ipfs://"+testCID, nil)
	deps.content.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return("ipfs://"+testMetadataCID, nil)

	// No free mints, the mint pays the contract price
	price := big.NewInt(1e15)
	deps.chain.EXPECT().
		FreeMintCount(gomock.Any(), gomock.Any()).
		Return(big.NewInt(0), nil)
	deps.chain.EXPECT().
		MintPrice(gomock.Any()).
		Return(price, nil)

	mintTx := common.HexToHash("0x01")
	mintReceipt := successReceipt(100)
	deps.chain.EXPECT().
		SubmitMint(gomock.Any(), "ipfs://"+testMetadataCID, price).
		Return(mintTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), mintTx, time.Minute).
		Return(mintReceipt, nil)
	deps.chain.EXPECT().
		MintedTokenID(mintReceipt).
		Return(big.NewInt(7), nil)

	indexed := make(chan struct{})
	deps.store.EXPECT().
		UpsertNFT(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.UpsertNFTInput) (interface{}, error) {
			assert.Equal(t, "7", input.TokenID)
			close(indexed)
			return nil, nil
		})

	result, err := p.Run(context.Background(), intent, image, "")
	require.NoError(t, err)

	assert.Equal(t, pipeline.StateSuccess, p.State())
	assert.Equal(t, "7", result.TokenID)
	assert.False(t, result.Listed)
	assert.Empty(t, result.ApproveTxHash)
	assert.Empty(t, result.ListTxHash)

	select {
	case <-indexed:
	case <-time.After(2 * time.Second):
		t.Fatal("index write never happened")
	}
}

func TestPipeline_InvalidIntent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, _ := newTestPipeline(ctrl)

	_, err := p.Run(context.Background(), domain.MintIntent{
		CreatorAddress: "not-an-address",
		Name:           "Sunset",
	}, []byte{0x89}, "")

	assert.Error(t, err)
	assert.Equal(t, pipeline.StateForm, p.State())
}

func TestPipeline_UploadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("pinning service down"))

	_, err := p.Run(context.Background(), domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
	}, []byte{0x89}, "")

	require.Error(t, err)
	assert.Equal(t, pipeline.StateError, p.State())

	var stepErr *pipeline.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, pipeline.StepUpload, stepErr.Step)
	assert.Equal(t, err, p.Err())
}

func TestPipeline_MintRevertKeepsReceiptContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("ipfs://"+testCID, nil)
	deps.content.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return("ipfs://"+testMetadataCID, nil)

	deps.chain.EXPECT().
		FreeMintCount(gomock.Any(), gomock.Any()).
		Return(big.NewInt(1), nil)

	mintTx := common.HexToHash("0x01")
	revertedReceipt := &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(100),
	}
	deps.chain.EXPECT().
		SubmitMint(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mintTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), mintTx, time.Minute).
		Return(revertedReceipt, domain.ErrTransactionReverted)

	_, err := p.Run(context.Background(), domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
	}, []byte{0x89}, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)

	var stepErr *pipeline.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, pipeline.StepMint, stepErr.Step)
	assert.Equal(t, mintTx.Hex(), stepErr.TxHash)
}

func TestPipeline_RetryDoesNotResubmitApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	intent := domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
		Price:          "1",
	}
	image := []byte{0x89}

	// Upload and mint happen exactly once, the retry resumes past them
	deps.content.EXPECT().
		UploadAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("ipfs://"+testCID, nil).
		Times(1)
	deps.content.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return("ipfs://"+testMetadataCID, nil).
		Times(1)
	deps.chain.EXPECT().
		FreeMintCount(gomock.Any(), gomock.Any()).
		Return(big.NewInt(1), nil).
		Times(1)

	mintTx := common.HexToHash("0x01")
	mintReceipt := successReceipt(100)
	deps.chain.EXPECT().
		SubmitMint(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mintTx, nil).
		Times(1)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), mintTx, time.Minute).
		Return(mintReceipt, nil).
		Times(1)
	deps.chain.EXPECT().
		MintedTokenID(mintReceipt).
		Return(big.NewInt(42), nil).
		Times(1)

	// The approval is submitted exactly once: the first attempt's receipt
	// wait fails, the retry waits on the same transaction
	approveTx := common.HexToHash("0x02")
	deps.chain.EXPECT().
		SubmitApprove(gomock.Any(), testMarketplace, big.NewInt(42)).
		Return(approveTx, nil).
		Times(1)
	gomock.InOrder(
		deps.chain.EXPECT().
			WaitForReceipt(gomock.Any(), approveTx, time.Minute).
			Return(nil, errors.New("receipt timeout")),
		deps.chain.EXPECT().
			WaitForReceipt(gomock.Any(), approveTx, time.Minute).
			Return(successReceipt(101), nil),
	)

	_, err := p.Run(context.Background(), intent, image, "")
	require.Error(t, err)
	assert.Equal(t, pipeline.StateError, p.State())

	// Retry: the approval guard holds, the listing proceeds
	oneEthWei := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	listTx := common.HexToHash("0x03")
	deps.chain.EXPECT().
		SubmitListItem(gomock.Any(), testContract, big.NewInt(42), oneEthWei).
		Return(listTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), listTx, time.Minute).
		Return(successReceipt(103), nil)

	indexed := make(chan struct{})
	deps.store.EXPECT().
		UpsertNFT(gomock.Any(), gomock.Any()).
		Return(nil, nil)
	deps.store.EXPECT().
		CreateListing(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ store.CreateListingInput) (interface{}, error) {
			close(indexed)
			return nil, nil
		})

	result, err := p.Run(context.Background(), intent, image, "")
	require.NoError(t, err)
	assert.True(t, result.Listed)
	assert.Equal(t, "42", result.TokenID)
	assert.Equal(t, mintTx.Hex(), result.MintTxHash)
	assert.Equal(t, approveTx.Hex(), result.ApproveTxHash)
	assert.Equal(t, listTx.Hex(), result.ListTxHash)

	select {
	case <-indexed:
	case <-time.After(2 * time.Second):
		t.Fatal("index write never happened")
	}
}

func TestPipeline_RetryDoesNotResubmitMint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	intent := domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
	}
	image := []byte{0x89}

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("ipfs://"+testCID, nil).
		Times(1)
	deps.content.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return("ipfs://"+testMetadataCID, nil).
		Times(1)
	deps.chain.EXPECT().
		FreeMintCount(gomock.Any(), gomock.Any()).
		Return(big.NewInt(1), nil).
		Times(1)

	// The mint is paid for, so it is submitted exactly once. The first
	// receipt wait times out, the retry picks the pending transaction
	// back up instead of paying again.
	mintTx := common.HexToHash("0x01")
	mintReceipt := successReceipt(100)
	deps.chain.EXPECT().
		SubmitMint(gomock.Any(), "ipfs://"+testMetadataCID, big.NewInt(0)).
		Return(mintTx, nil).
		Times(1)
	gomock.InOrder(
		deps.chain.EXPECT().
			WaitForReceipt(gomock.Any(), mintTx, time.Minute).
			Return(nil, errors.New("receipt timeout")),
		deps.chain.EXPECT().
			WaitForReceipt(gomock.Any(), mintTx, time.Minute).
			Return(mintReceipt, nil),
	)
	deps.chain.EXPECT().
		MintedTokenID(mintReceipt).
		Return(big.NewInt(42), nil).
		Times(1)

	_, err := p.Run(context.Background(), intent, image, "")
	require.Error(t, err)
	assert.Equal(t, pipeline.StateError, p.State())

	var stepErr *pipeline.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, pipeline.StepMint, stepErr.Step)
	assert.Equal(t, mintTx.Hex(), stepErr.TxHash)

	indexed := make(chan struct{})
	deps.store.EXPECT().
		UpsertNFT(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.UpsertNFTInput) (interface{}, error) {
			assert.Equal(t, "42", input.TokenID)
			close(indexed)
			return nil, nil
		})

	result, err := p.Run(context.Background(), intent, image, "")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateSuccess, p.State())
	assert.Equal(t, "42", result.TokenID)
	assert.Equal(t, mintTx.Hex(), result.MintTxHash)

	select {
	case <-indexed:
	case <-time.After(2 * time.Second):
		t.Fatal("index write never happened")
	}
}

func TestPipeline_RetryResubmitsApprovalThatNeverLeft(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	intent := domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
		Price:          "1",
	}
	image := []byte{0x89}

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("ipfs://"+testCID, nil).
		Times(1)
	deps.content.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return("ipfs://"+testMetadataCID, nil).
		Times(1)
	deps.chain.EXPECT().
		FreeMintCount(gomock.Any(), gomock.Any()).
		Return(big.NewInt(1), nil).
		Times(1)

	mintTx := common.HexToHash("0x01")
	mintReceipt := successReceipt(100)
	deps.chain.EXPECT().
		SubmitMint(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mintTx, nil).
		Times(1)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), mintTx, time.Minute).
		Return(mintReceipt, nil).
		Times(1)
	deps.chain.EXPECT().
		MintedTokenID(mintReceipt).
		Return(big.NewInt(42), nil).
		Times(1)

	// The first submission never reached the chain, so no transaction
	// exists and the guard stays clear for the retry
	approveTx := common.HexToHash("0x02")
	gomock.InOrder(
		deps.chain.EXPECT().
			SubmitApprove(gomock.Any(), testMarketplace, big.NewInt(42)).
			Return(common.Hash{}, errors.New("nonce too low")),
		deps.chain.EXPECT().
			SubmitApprove(gomock.Any(), testMarketplace, big.NewInt(42)).
			Return(approveTx, nil),
	)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), approveTx, time.Minute).
		Return(successReceipt(101), nil)

	_, err := p.Run(context.Background(), intent, image, "")
	require.Error(t, err)
	assert.Equal(t, pipeline.StateError, p.State())

	oneEthWei := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	listTx := common.HexToHash("0x03")
	deps.chain.EXPECT().
		SubmitListItem(gomock.Any(), testContract, big.NewInt(42), oneEthWei).
		Return(listTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), listTx, time.Minute).
		Return(successReceipt(103), nil)

	indexed := make(chan struct{})
	deps.store.EXPECT().
		UpsertNFT(gomock.Any(), gomock.Any()).
		Return(nil, nil)
	deps.store.EXPECT().
		CreateListing(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ store.CreateListingInput) (interface{}, error) {
			close(indexed)
			return nil, nil
		})

	result, err := p.Run(context.Background(), intent, image, "")
	require.NoError(t, err)
	assert.True(t, result.Listed)
	assert.Equal(t, approveTx.Hex(), result.ApproveTxHash)

	select {
	case <-indexed:
	case <-time.After(2 * time.Second):
		t.Fatal("index write never happened")
	}
}

func TestPipeline_IndexWriteFailureQueuesRepair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("ipfs://"+testCID, nil)
	deps.content.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return("ipfs://"+testMetadataCID, nil)
	deps.chain.EXPECT().
		FreeMintCount(gomock.Any(), gomock.Any()).
		Return(big.NewInt(1), nil)

	mintTx := common.HexToHash("0x01")
	mintReceipt := successReceipt(100)
	deps.chain.EXPECT().
		SubmitMint(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mintTx, nil)
	deps.chain.EXPECT().
		WaitForReceipt(gomock.Any(), mintTx, time.Minute).
		Return(mintReceipt, nil)
	deps.chain.EXPECT().
		MintedTokenID(mintReceipt).
		Return(big.NewInt(7), nil)

	deps.store.EXPECT().
		UpsertNFT(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	repaired := make(chan struct{})
	deps.pub.EXPECT().
		PublishRepair(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.RepairEvent) error {
			assert.Equal(t, "7", event.TokenID)
			assert.Contains(t, event.Reason, "pipeline index write failed")
			close(repaired)
			return nil
		})

	_, err := p.Run(context.Background(), domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
	}, []byte{0x89}, "")
	require.NoError(t, err)

	select {
	case <-repaired:
	case <-time.After(2 * time.Second):
		t.Fatal("repair was never queued")
	}
}

func TestPipeline_Restart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, deps := newTestPipeline(ctrl)

	deps.content.EXPECT().
		UploadAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("down"))

	_, err := p.Run(context.Background(), domain.MintIntent{
		CreatorAddress: testCreator,
		Name:           "Sunset",
	}, []byte{0x89}, "")
	require.Error(t, err)
	require.Equal(t, pipeline.StateError, p.State())

	require.NoError(t, p.Restart())
	assert.Equal(t, pipeline.StateForm, p.State())
	assert.NoError(t, p.Err())
	assert.Empty(t, p.Result().RunID)
}

func TestPriceToWei(t *testing.T) {
	tests := []struct {
		name        string
		price       string
		expected    string
		expectedErr error
	}{
		{name: "one eth", price: "1", expected: "1000000000000000000"},
		{name: "half eth", price: "0.5", expected: "500000000000000000"},
		{name: "one wei", price: "0.000000000000000001", expected: "1"},
		{name: "sub-wei floors", price: "0.0000000000000000015", expected: "1"},
		{name: "zero", price: "0", expectedErr: domain.ErrInvalidPrice},
		{name: "garbage", price: "free", expectedErr: domain.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, err := pipeline.PriceToWei(tt.price)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, wei.String())
		})
	}
}
