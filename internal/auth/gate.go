package auth

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/domain"
)

// challengeTemplate is the message wallets sign. The timestamp is RFC 3339
// and the nonce binds the signature to a single challenge.
const challengeTemplate = "Sign this message to authenticate with ArcNFT Marketplace.\n\n" +
	"Wallet: %s\n" +
	"Timestamp: %s\n" +
	"Nonce: %d\n\n" +
	"This signature will not trigger any blockchain transaction or cost gas fees."

// challengeTTL bounds how long an issued challenge stays redeemable
const challengeTTL = 5 * time.Minute

// Gate issues signing challenges and tracks authenticated wallets
//
//go:generate mockgen -source=gate.go -destination=../mocks/auth_gate.go -package=mocks -mock_names=Gate=MockGate
type Gate interface {
	// Challenge issues a fresh challenge message for wallet.
	// A new challenge supersedes any unredeemed one for the same wallet.
	Challenge(wallet string) (string, error)

	// Authenticate verifies the signature over the pending challenge and
	// opens a session for wallet
	Authenticate(wallet string, signature string) error

	// IsAuthenticated reports whether wallet has an unexpired session
	IsAuthenticated(wallet string) bool

	// RequireWallet checks that the authenticated wallet matches the wallet
	// owning the record being mutated. A missing session or a mismatch both
	// fail closed.
	RequireWallet(authedWallet string, recordWallet string) error

	// Invalidate drops the session for wallet
	Invalidate(wallet string)
}

type pendingChallenge struct {
	message  string
	issuedAt time.Time
}

type gate struct {
	mu       sync.Mutex
	pending  map[string]pendingChallenge
	sessions *SessionCache
	clock    adapter.Clock
}

// NewGate creates an authentication gate with the given session TTL
func NewGate(sessionTTL time.Duration, clock adapter.Clock) Gate {
	return &gate{
		pending:  make(map[string]pendingChallenge),
		sessions: NewSessionCache(sessionTTL, clock),
		clock:    clock,
	}
}

// Challenge issues a fresh challenge message for wallet
func (g *gate) Challenge(wallet string) (string, error) {
	if !common.IsHexAddress(wallet) {
		return "", fmt.Errorf("invalid wallet address: %s", wallet)
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := binary.BigEndian.Uint64(buf[:]) >> 1

	message := fmt.Sprintf(challengeTemplate,
		domain.NormalizeAddress(wallet),
		g.clock.Now().UTC().Format(time.RFC3339),
		nonce)

	g.mu.Lock()
	g.pending[domain.CacheKeyAddress(wallet)] = pendingChallenge{
		message:  message,
		issuedAt: g.clock.Now(),
	}
	g.mu.Unlock()

	return message, nil
}

// Authenticate verifies the signature over the pending challenge
func (g *gate) Authenticate(wallet string, signature string) error {
	key := domain.CacheKeyAddress(wallet)

	g.mu.Lock()
	challenge, ok := g.pending[key]
	if ok {
		delete(g.pending, key)
	}
	g.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: no pending challenge for %s", domain.ErrInvalidSignature, wallet)
	}
	if g.clock.Since(challenge.issuedAt) > challengeTTL {
		return fmt.Errorf("%w: challenge expired", domain.ErrInvalidSignature)
	}

	if err := VerifyPersonalSignature(wallet, challenge.message, signature); err != nil {
		return err
	}

	g.sessions.Put(wallet)
	return nil
}

// IsAuthenticated reports whether wallet has an unexpired session
func (g *gate) IsAuthenticated(wallet string) bool {
	return g.sessions.Valid(wallet)
}

// RequireWallet checks the session and the wallet-record binding
func (g *gate) RequireWallet(authedWallet string, recordWallet string) error {
	if !g.sessions.Valid(authedWallet) {
		return domain.ErrSessionExpired
	}
	if !strings.EqualFold(authedWallet, recordWallet) {
		return fmt.Errorf("%w: %s is not %s", domain.ErrWalletMismatch, authedWallet, recordWallet)
	}
	return nil
}

// Invalidate drops the session for wallet
func (g *gate) Invalidate(wallet string) {
	g.sessions.Invalidate(wallet)
}
