package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
)

// wireOrder is the strict shape expected from the generator. Prices proposed
// by the generator are deliberately absent so they are dropped on decode.
type wireOrder struct {
	Items *[]wireItem `json:"items"`
}

type wireItem struct {
	ProductID   *int64 `json:"product_id"`
	CompanyID   *int64 `json:"company_id"`
	ProductName string `json:"product_name"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
	Quantity    *int   `json:"quantity"`
	SpecName    string `json:"spec_name"`
	TypeName    string `json:"type_name"`
	Description string `json:"description"`
}

// StripFence removes surrounding whitespace and a markdown code fence, with or
// without a language tag.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && isTag(s[:nl]) {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeftFunc(s, isTagRune)
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !isTagRune(r) {
			return false
		}
	}
	return true
}

// isTagRune matches info-string characters such as json, json5 or c++.
func isTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
		r == '_' || r == '+' || r == '-'
}

// Upper bounds on extracted numbers. Anything larger is not a real order line
// and would overflow the price arithmetic.
const (
	MaxQuantity  = 1_000_000
	MaxDimension = 100_000 // mm
)

// Parse turns raw generator output into a validated order with zeroed prices.
// A nil allowed set skips the candidate check; a non-nil set, even an empty
// one, requires every item to reference one of its product ids.
func Parse(raw string, allowed map[int64]struct{}) (domain.Order, error) {
	body := StripFence(raw)

	var w wireOrder
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.Order{}, &Error{Kind: KindSchemaViolation, Raw: raw, Err: fmt.Errorf("field %q: %w", typeErr.Field, err)}
		}
		return domain.Order{}, &Error{Kind: KindMalformedOutput, Raw: raw, Err: err}
	}
	if w.Items == nil {
		return domain.Order{}, &Error{Kind: KindSchemaViolation, Raw: raw, Err: errors.New(`missing "items"`)}
	}

	order := domain.Order{Items: make([]domain.LineItem, 0, len(*w.Items))}
	for i, it := range *w.Items {
		item, err := it.validate(allowed)
		if err != nil {
			return domain.Order{}, &Error{Kind: KindSchemaViolation, Raw: raw, Err: fmt.Errorf("items[%d]: %w", i, err)}
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

func (it wireItem) validate(allowed map[int64]struct{}) (domain.LineItem, error) {
	if it.ProductID == nil {
		return domain.LineItem{}, errors.New("product_id is required")
	}
	if *it.ProductID <= 0 {
		return domain.LineItem{}, fmt.Errorf("product_id must be positive, got %d", *it.ProductID)
	}
	if it.CompanyID == nil {
		return domain.LineItem{}, errors.New("company_id is required")
	}
	if *it.CompanyID <= 0 {
		return domain.LineItem{}, fmt.Errorf("company_id must be positive, got %d", *it.CompanyID)
	}
	if allowed != nil {
		if _, ok := allowed[*it.ProductID]; !ok {
			return domain.LineItem{}, fmt.Errorf("product_id %d was not offered as a candidate", *it.ProductID)
		}
	}

	width, height, qty := deref(it.Width), deref(it.Height), deref(it.Quantity)
	if width < 0 || height < 0 {
		return domain.LineItem{}, fmt.Errorf("negative size %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return domain.LineItem{}, fmt.Errorf("size %dx%d exceeds %dmm", width, height, MaxDimension)
	}
	if qty < 0 {
		return domain.LineItem{}, fmt.Errorf("negative quantity %d", qty)
	}
	if qty > MaxQuantity {
		return domain.LineItem{}, fmt.Errorf("quantity %d exceeds %d", qty, MaxQuantity)
	}
	if qty == 0 {
		qty = 1
	}
	return domain.LineItem{
		ProductID:   *it.ProductID,
		CompanyID:   *it.CompanyID,
		ProductName: strings.TrimSpace(it.ProductName),
		Width:       width,
		Height:      height,
		Quantity:    qty,
		SpecName:    strings.TrimSpace(it.SpecName),
		TypeName:    strings.TrimSpace(it.TypeName),
		Description: strings.TrimSpace(it.Description),
		PriceSource: domain.PriceSourceNone,
	}, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
