package ports

import (
	"context"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
)

// Estimator turns free text into a priced order and answers chat turns.
type Estimator interface {
	Analyze(ctx context.Context, text string) (domain.Order, error)
	Chat(ctx context.Context, req ChatRequest) (domain.ChatMessage, error)
}

// Catalog exposes candidate retrieval as structured entries.
type Catalog interface {
	Entries(ctx context.Context, text string, limit int) ([]domain.CatalogEntry, error)
}

// ChatRequest is a conversation forwarded to the text generator. EstimateData,
// when set, is summarized into the system message.
type ChatRequest struct {
	Messages     []domain.ChatMessage
	Model        string
	Temperature  *float32
	EstimateData *domain.Order
}
