package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
)

// Strategy is one tier of the price fallback chain. ok=false with a nil error
// means the tier has no price for the item; an error means the tier could not
// answer. Either way the resolver moves on to the next tier.
type Strategy interface {
	Source() domain.PriceSource
	Price(ctx context.Context, item domain.LineItem) (unit int64, ok bool, err error)
}

// Remote asks the backend pricing service.
type Remote struct {
	Client  ports.RemotePricer
	Timeout time.Duration
}

func (Remote) Source() domain.PriceSource { return domain.PriceSourceRemote }

func (s Remote) Price(ctx context.Context, item domain.LineItem) (int64, bool, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req := ports.EstimateRequest{
		CompanyID: item.CompanyID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		SpecName:  item.SpecName,
		TypeName:  item.TypeName,
	}
	if item.HasSize() {
		req.Width, req.Height = item.Width, item.Height
	}
	res, err := s.Client.Calculate(ctx, req)
	if err != nil {
		return 0, false, err
	}
	return res.UnitPrice, true, nil
}

// Matrix looks up the size band table. Items without both dimensions never
// reach the store.
type Matrix struct {
	Repo ports.PriceRepository
}

func (Matrix) Source() domain.PriceSource { return domain.PriceSourceMatrix }

func (s Matrix) Price(ctx context.Context, item domain.LineItem) (int64, bool, error) {
	if !item.HasSize() {
		return 0, false, nil
	}
	bands, err := s.Repo.SizeBands(ctx, item.ProductID)
	if err != nil {
		return 0, false, eris.Wrapf(err, "size bands for product %d", item.ProductID)
	}
	band, ok := MatchBand(bands, item.Width, item.Height)
	if !ok {
		return 0, false, nil
	}
	return band.Price, true, nil
}

// MatchBand picks the smallest band that covers width x height: ordered by
// max_width, then max_height, then price, then id.
func MatchBand(bands []domain.SizeBand, width, height int) (domain.SizeBand, bool) {
	var (
		best  domain.SizeBand
		found bool
	)
	for _, b := range bands {
		if b.MaxWidth < width || b.MaxHeight < height {
			continue
		}
		if !found || bandLess(b, best) {
			best, found = b, true
		}
	}
	return best, found
}

func bandLess(a, b domain.SizeBand) bool {
	if a.MaxWidth != b.MaxWidth {
		return a.MaxWidth < b.MaxWidth
	}
	if a.MaxHeight != b.MaxHeight {
		return a.MaxHeight < b.MaxHeight
	}
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.ID < b.ID
}

// Variant prices from product_variants. A variant named by the item's spec
// and type wins; otherwise the cheapest variant is used.
type Variant struct {
	Repo ports.PriceRepository
}

func (Variant) Source() domain.PriceSource { return domain.PriceSourceVariant }

func (s Variant) Price(ctx context.Context, item domain.LineItem) (int64, bool, error) {
	variants, err := s.Repo.Variants(ctx, item.ProductID)
	if err != nil {
		return 0, false, eris.Wrapf(err, "variants for product %d", item.ProductID)
	}
	v, ok := PickVariant(variants, item.SpecName, item.TypeName)
	if !ok {
		return 0, false, nil
	}
	return v.Price, true, nil
}

func PickVariant(variants []domain.Variant, spec, typ string) (domain.Variant, bool) {
	if len(variants) == 0 {
		return domain.Variant{}, false
	}
	if spec != "" || typ != "" {
		for _, v := range variants {
			if (spec == "" || strings.EqualFold(v.SpecName, spec)) && (typ == "" || strings.EqualFold(v.TypeName, typ)) {
				return v, true
			}
		}
	}
	best := variants[0]
	for _, v := range variants[1:] {
		if v.Price < best.Price || (v.Price == best.Price && v.ID < best.ID) {
			best = v
		}
	}
	return best, true
}

// Base uses the product's base price.
type Base struct {
	Repo ports.PriceRepository
}

func (Base) Source() domain.PriceSource { return domain.PriceSourceBase }

func (s Base) Price(ctx context.Context, item domain.LineItem) (int64, bool, error) {
	p, found, err := s.Repo.Product(ctx, item.ProductID)
	if err != nil {
		return 0, false, eris.Wrapf(err, "product %d", item.ProductID)
	}
	if !found {
		return 0, false, nil
	}
	return p.BasePrice, true, nil
}
