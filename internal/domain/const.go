package domain

const (
	// EthereumZeroAddress is the zero address used as the from address of
	// mint transfers and the to address of burns
	EthereumZeroAddress = "0x0000000000000000000000000000000000000000"

	// MaxRoyaltyBasisPoints caps creator royalties at 10%
	MaxRoyaltyBasisPoints = 1000
)
