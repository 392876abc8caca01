package domain

// Core domain models used by the extraction and pricing pipeline. Wire shapes
// for the HTTP surface live in the http adapter; keep these decoupled.

// CatalogEntry is a read-only snapshot of a product row joined with its
// category and company.
type CatalogEntry struct {
	ID          int64
	CompanyID   int64
	Name        string
	BasePrice   int64
	Category    string
	Company     string
	Size        string
	Description string
}

// SizeBand prices a product for every size up to MaxWidth x MaxHeight.
type SizeBand struct {
	ID        int64
	ProductID int64
	MaxWidth  int
	MaxHeight int
	Price     int64
}

type Variant struct {
	ID        int64
	ProductID int64
	SpecName  string
	TypeName  string
	Price     int64
}

// PriceSource records which tier produced a line item's unit price.
type PriceSource string

const (
	PriceSourceNone    PriceSource = "none"
	PriceSourceRemote  PriceSource = "remote"
	PriceSourceMatrix  PriceSource = "matrix"
	PriceSourceVariant PriceSource = "variant"
	PriceSourceBase    PriceSource = "base"
)

// LineItem is one extracted order line. UnitPrice and TotalPrice are always
// computed server side.
type LineItem struct {
	ProductID   int64
	CompanyID   int64
	ProductName string
	Width       int // mm, 0 = not applicable
	Height      int // mm, 0 = not applicable
	Quantity    int
	SpecName    string
	TypeName    string
	UnitPrice   int64
	TotalPrice  int64
	Description string
	PriceSource PriceSource
}

// HasSize reports whether both dimensions were given.
func (li LineItem) HasSize() bool { return li.Width > 0 && li.Height > 0 }

type Order struct {
	Items       []LineItem
	TotalAmount int64
}

// Recompute sets every item total from its unit price and quantity and then
// sums the order total.
func (o *Order) Recompute() {
	var total int64
	for i := range o.Items {
		o.Items[i].TotalPrice = o.Items[i].UnitPrice * int64(o.Items[i].Quantity)
		total += o.Items[i].TotalPrice
	}
	o.TotalAmount = total
}

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole
	Content string
}
