package pricing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/metrics"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
	"github.com/junlennon0516/DongSeo-WebProject/internal/workers/pricerunner"
)

const DefaultRemoteTimeout = 10 * time.Second

type Options struct {
	RemoteTimeout time.Duration
	Concurrency   int
	Metrics       *metrics.Registry
}

// Resolver prices line items by trying each strategy in order and keeping
// the first answer.
type Resolver struct {
	strategies  []Strategy
	concurrency int
	log         *zap.Logger
	metrics     *metrics.Registry
}

// New builds the standard chain: remote, matrix, variant, base. A nil remote
// client leaves the remote tier out.
func New(remote ports.RemotePricer, repo ports.PriceRepository, log *zap.Logger, opts Options) *Resolver {
	timeout := opts.RemoteTimeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	var chain []Strategy
	if remote != nil {
		chain = append(chain, Remote{Client: remote, Timeout: timeout})
	}
	chain = append(chain, Matrix{Repo: repo}, Variant{Repo: repo}, Base{Repo: repo})
	return NewWithStrategies(chain, log, opts)
}

func NewWithStrategies(chain []Strategy, log *zap.Logger, opts Options) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{strategies: chain, concurrency: opts.Concurrency, log: log, metrics: opts.Metrics}
}

// ResolveItem returns item with UnitPrice, TotalPrice and PriceSource set.
// It never fails: an item no tier can price is returned at 0.
func (r *Resolver) ResolveItem(ctx context.Context, item domain.LineItem) domain.LineItem {
	item.UnitPrice, item.TotalPrice, item.PriceSource = 0, 0, domain.PriceSourceNone
	for _, s := range r.strategies {
		unit, ok, err := s.Price(ctx, item)
		if err != nil {
			if s.Source() == domain.PriceSourceRemote {
				r.metrics.ObserveRemoteFailure()
				r.log.Info("remote pricing unavailable, falling back to local tables",
					zap.Int64("product_id", item.ProductID), zap.Error(err))
			} else {
				r.log.Warn("price lookup failed",
					zap.String("tier", string(s.Source())), zap.Int64("product_id", item.ProductID), zap.Error(err))
			}
			continue
		}
		if !ok {
			continue
		}
		item.UnitPrice, item.PriceSource = unit, s.Source()
		break
	}
	if item.PriceSource == domain.PriceSourceNone {
		r.metrics.ObserveAnomaly()
		r.log.Warn("pricing anomaly: no tier priced item",
			zap.Int64("product_id", item.ProductID), zap.Int64("company_id", item.CompanyID))
	}
	r.metrics.ObservePriceSource(string(item.PriceSource))
	item.TotalPrice = item.UnitPrice * int64(item.Quantity)
	return item
}

// Resolve prices every item of order and recomputes the order total. Items
// are independent and may be priced concurrently; output order matches input.
func (r *Resolver) Resolve(ctx context.Context, order domain.Order) domain.Order {
	out := domain.Order{Items: make([]domain.LineItem, len(order.Items))}
	_ = pricerunner.Run(ctx, len(order.Items), r.concurrency, func(ctx context.Context, i int) error {
		out.Items[i] = r.ResolveItem(ctx, order.Items[i])
		return nil
	})
	out.Recompute()
	return out
}
