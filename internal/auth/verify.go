package auth

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/arcnft/marketplace-sync/internal/domain"
)

// VerifyPersonalSignature checks that signature was produced by wallet over
// message using the Ethereum personal-sign scheme
func VerifyPersonalSignature(wallet string, message string, signature string) error {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if len(sig) != 65 {
		return fmt.Errorf("%w: expected 65 bytes, got %d", domain.ErrInvalidSignature, len(sig))
	}

	// Wallets return v as 27/28, Ecrecover expects 0/1
	if sig[64] >= 27 {
		sig = append([]byte{}, sig...)
		sig[64] -= 27
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	hash := crypto.Keccak256Hash([]byte(prefixed))

	pubKey, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	if !strings.EqualFold(recovered.Hex(), wallet) {
		return fmt.Errorf("%w: recovered %s, want %s", domain.ErrInvalidSignature, recovered.Hex(), wallet)
	}

	return nil
}
