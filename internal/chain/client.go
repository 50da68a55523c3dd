package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/domain"
)

// Client wraps the marketplace contract: transaction submission, receipt
// polling, minted token decoding, and the read-only gating helpers
//
//go:generate mockgen -source=client.go -destination=../mocks/chain.go -package=mocks -mock_names=Client=MockChainClient
type Client interface {
	// SubmitMint submits a mint(uri) transaction carrying value as payment
	SubmitMint(ctx context.Context, uri string, value *big.Int) (common.Hash, error)

	// SubmitApprove submits approve(to, tokenId)
	SubmitApprove(ctx context.Context, to common.Address, tokenID *big.Int) (common.Hash, error)

	// SubmitListItem submits listItem(nftContract, tokenId, price)
	SubmitListItem(ctx context.Context, nftContract common.Address, tokenID *big.Int, priceWei *big.Int) (common.Hash, error)

	// SubmitBuyItem submits buyItem(nftContract, tokenId) paying priceWei
	SubmitBuyItem(ctx context.Context, nftContract common.Address, tokenID *big.Int, priceWei *big.Int) (common.Hash, error)

	// WaitForReceipt polls until the transaction is mined or the timeout
	// lapses. A mined-but-reverted transaction returns the receipt together
	// with ErrTransactionReverted.
	WaitForReceipt(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error)

	// MintedTokenID extracts the minted token ID from a mint receipt by
	// matching Transfer logs from the expected contract, never by position.
	// When several qualify the lowest log index wins.
	MintedTokenID(receipt *types.Receipt) (*big.Int, error)

	// FreeMintCount reads freeMintCount(minter). Advisory only, the
	// contract's own revert is what actually enforces payment.
	FreeMintCount(ctx context.Context, minter common.Address) (*big.Int, error)

	// MintPrice reads mintPrice()
	MintPrice(ctx context.Context) (*big.Int, error)

	// OwnerOf reads ownerOf(tokenId) on the collection contract
	OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error)

	// ContractAddress returns the configured collection contract address
	ContractAddress() common.Address

	// SignerAddress returns the address transactions are sent from
	SignerAddress() common.Address

	// Close closes the underlying connection
	Close()
}

type client struct {
	contractAddress common.Address
	chainID         *big.Int
	abi             abi.ABI
	eth             adapter.EthClient
	signer          adapter.Signer
}

// NewClient creates a marketplace chain client bound to one contract
func NewClient(contractAddress common.Address, chainID *big.Int, eth adapter.EthClient, signer adapter.Signer) Client {
	return &client{
		contractAddress: contractAddress,
		chainID:         chainID,
		abi:             mustMarketplaceABI(),
		eth:             eth,
		signer:          signer,
	}
}

func (c *client) ContractAddress() common.Address {
	return c.contractAddress
}

func (c *client) SignerAddress() common.Address {
	return c.signer.Address()
}

// submit packs, signs, and sends a contract call
func (c *client) submit(ctx context.Context, value *big.Int, method string, args ...interface{}) (common.Hash, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	from := c.signer.Address()

	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &c.contractAddress,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas for %s: %w", method, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contractAddress,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := c.signer.SignTransaction(tx, c.chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send %s transaction: %w", method, err)
	}

	return signedTx.Hash(), nil
}

func (c *client) SubmitMint(ctx context.Context, uri string, value *big.Int) (common.Hash, error) {
	return c.submit(ctx, value, "mint", uri)
}

func (c *client) SubmitApprove(ctx context.Context, to common.Address, tokenID *big.Int) (common.Hash, error) {
	return c.submit(ctx, nil, "approve", to, tokenID)
}

func (c *client) SubmitListItem(ctx context.Context, nftContract common.Address, tokenID *big.Int, priceWei *big.Int) (common.Hash, error) {
	return c.submit(ctx, nil, "listItem", nftContract, tokenID, priceWei)
}

func (c *client) SubmitBuyItem(ctx context.Context, nftContract common.Address, tokenID *big.Int, priceWei *big.Int) (common.Hash, error) {
	return c.submit(ctx, priceWei, "buyItem", nftContract, tokenID)
}

// WaitForReceipt polls for a transaction receipt with exponential backoff
func (c *client) WaitForReceipt(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	var receipt *types.Receipt

	operation := func() error {
		r, err := c.eth.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				// Not mined yet
				return fmt.Errorf("transaction not mined yet: %s", txHash.Hex())
			}
			return backoff.Permanent(fmt.Errorf("failed to get receipt: %w", err))
		}

		receipt = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = timeout
	b.Multiplier = 1.5
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("waiting for receipt %s: %w", txHash.Hex(), err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: %s", domain.ErrTransactionReverted, txHash.Hex())
	}

	return receipt, nil
}

// MintedTokenID extracts the minted token ID from a mint receipt.
// Only Transfer logs emitted by the expected contract with a zero from
// address qualify. Receipts keep logs in log index order, so the first
// match is the lowest log index.
func (c *client) MintedTokenID(receipt *types.Receipt) (*big.Int, error) {
	for _, vLog := range receipt.Logs {
		if vLog.Address != c.contractAddress {
			continue
		}
		if len(vLog.Topics) != 4 || vLog.Topics[0] != TransferEventSignature {
			continue
		}

		from := common.BytesToAddress(vLog.Topics[1].Bytes())
		if from != (common.Address{}) {
			continue
		}

		return new(big.Int).SetBytes(vLog.Topics[3].Bytes()), nil
	}

	return nil, fmt.Errorf("%w: tx %s", domain.ErrTokenIDNotFound, receipt.TxHash.Hex())
}

// call executes a read-only contract call and unpacks the single result
func (c *client) call(ctx context.Context, method string, result interface{}, args ...interface{}) error {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contractAddress,
		Data: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := c.abi.UnpackIntoInterface(result, method, output); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return nil
}

func (c *client) FreeMintCount(ctx context.Context, minter common.Address) (*big.Int, error) {
	var count *big.Int
	if err := c.call(ctx, "freeMintCount", &count, minter); err != nil {
		return nil, err
	}
	return count, nil
}

func (c *client) MintPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	if err := c.call(ctx, "mintPrice", &price); err != nil {
		return nil, err
	}
	return price, nil
}

func (c *client) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	var owner common.Address
	if err := c.call(ctx, "ownerOf", &owner, tokenID); err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

// Close closes the connection
func (c *client) Close() {
	c.eth.Close()
}
