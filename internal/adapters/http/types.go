package httpadapter

import (
	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
)

// Wire shapes. Field names follow the existing front-end contract.

type analyzeRequest struct {
	Text string `json:"text"`
}

type lineItemJSON struct {
	ProductID   int64  `json:"product_id"`
	CompanyID   int64  `json:"company_id"`
	ProductName string `json:"product_name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Quantity    int    `json:"quantity"`
	SpecName    string `json:"spec_name,omitempty"`
	TypeName    string `json:"type_name,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`
	Description string `json:"description"`
	PriceSource string `json:"price_source,omitempty"`
}

type orderJSON struct {
	Items       []lineItemJSON `json:"items"`
	TotalAmount int64          `json:"total_amount"`
}

type chatMessageJSON struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages     []chatMessageJSON `json:"messages"`
	Model        string            `json:"model,omitempty"`
	Temperature  *float32          `json:"temperature,omitempty"`
	EstimateData *orderJSON        `json:"estimateData,omitempty"`
}

type catalogEntryJSON struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"company_id"`
	Name        string `json:"name"`
	BasePrice   int64  `json:"base_price"`
	Category    string `json:"category"`
	Company     string `json:"company"`
	Size        string `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
}

type catalogResponse struct {
	Items []catalogEntryJSON `json:"items"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Raw    string `json:"raw,omitempty"`
}

func toOrderJSON(o domain.Order) orderJSON {
	out := orderJSON{Items: make([]lineItemJSON, 0, len(o.Items)), TotalAmount: o.TotalAmount}
	for _, it := range o.Items {
		out.Items = append(out.Items, lineItemJSON{
			ProductID:   it.ProductID,
			CompanyID:   it.CompanyID,
			ProductName: it.ProductName,
			Width:       it.Width,
			Height:      it.Height,
			Quantity:    it.Quantity,
			SpecName:    it.SpecName,
			TypeName:    it.TypeName,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			Description: it.Description,
			PriceSource: string(it.PriceSource),
		})
	}
	return out
}

func (o orderJSON) toDomain() domain.Order {
	out := domain.Order{Items: make([]domain.LineItem, 0, len(o.Items)), TotalAmount: o.TotalAmount}
	for _, it := range o.Items {
		out.Items = append(out.Items, domain.LineItem{
			ProductID:   it.ProductID,
			CompanyID:   it.CompanyID,
			ProductName: it.ProductName,
			Width:       it.Width,
			Height:      it.Height,
			Quantity:    it.Quantity,
			SpecName:    it.SpecName,
			TypeName:    it.TypeName,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			Description: it.Description,
			PriceSource: domain.PriceSource(it.PriceSource),
		})
	}
	return out
}

func (r chatRequest) toPort() ports.ChatRequest {
	out := ports.ChatRequest{Model: r.Model, Temperature: r.Temperature}
	for _, m := range r.Messages {
		out.Messages = append(out.Messages, domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content})
	}
	if r.EstimateData != nil {
		o := r.EstimateData.toDomain()
		out.EstimateData = &o
	}
	return out
}

func toCatalogEntryJSON(e domain.CatalogEntry) catalogEntryJSON {
	return catalogEntryJSON{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Name:        e.Name,
		BasePrice:   e.BasePrice,
		Category:    e.Category,
		Company:     e.Company,
		Size:        e.Size,
		Description: e.Description,
	}
}
