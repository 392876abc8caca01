package ports

import (
	"context"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
)

// GenerateRequest is a single call to the external text generator.
type GenerateRequest struct {
	Model       string // empty means the client default
	System      string
	Messages    []domain.ChatMessage
	Temperature float32
}

// Generator returns raw text from the text-generation service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// EstimateRequest mirrors the remote pricing service's calculate body.
// Width and Height are only sent when both are positive.
type EstimateRequest struct {
	CompanyID int64
	ProductID int64
	Quantity  int
	Width     int
	Height    int
	SpecName  string
	TypeName  string
	OptionIDs []int64
}

// EstimateResult is a complete remote answer; incomplete payloads are
// reported as errors by the client.
type EstimateResult struct {
	UnitPrice  int64
	TotalPrice int64
}

// RemotePricer calls the backend pricing service.
type RemotePricer interface {
	Calculate(ctx context.Context, req EstimateRequest) (EstimateResult, error)
}
