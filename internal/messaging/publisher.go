package messaging

import (
	"context"

	"github.com/arcnft/marketplace-sync/internal/domain"
)

// RepairSubject is the JetStream subject repair requests are published to
const RepairSubject = "repairs.nft"

// Publisher defines the interface for publishing repair events to the
// message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishRepair publishes a repair request for one token
	PublishRepair(ctx context.Context, event *domain.RepairEvent) error
	// Close closes the connection
	Close()
}
