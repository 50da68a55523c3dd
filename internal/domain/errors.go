package domain

import "errors"

var (
	// ErrNFTNotFound is returned when an NFT is not found in the index
	ErrNFTNotFound = errors.New("nft not found")

	// ErrListingNotFound is returned when no active listing exists for a token
	ErrListingNotFound = errors.New("listing not found")

	// ErrProfileNotFound is returned when a wallet has no profile record
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidPrice is returned when a listing price cannot be parsed or is
	// not strictly positive
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidRoyalty is returned when a royalty is outside the allowed range
	ErrInvalidRoyalty = errors.New("invalid royalty")

	// ErrInvalidSignature is returned when a wallet signature does not recover
	// to the claimed address
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrSessionExpired is returned when an authentication session has lapsed
	ErrSessionExpired = errors.New("session expired")

	// ErrWalletMismatch is returned when the connected wallet differs from the
	// wallet a record belongs to
	ErrWalletMismatch = errors.New("wallet mismatch")

	// ErrTransactionReverted is returned when a submitted transaction was mined
	// but reverted
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrTokenIDNotFound is returned when no Transfer event from the expected
	// contract is present in a mint receipt
	ErrTokenIDNotFound = errors.New("token id not found in receipt")

	// ErrMalformedCID is returned when a content identifier fails validation
	ErrMalformedCID = errors.New("malformed cid")
)
