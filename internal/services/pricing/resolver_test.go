package pricing

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/metrics"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
)

type fakeRepo struct {
	mu        sync.Mutex
	bands     map[int64][]domain.SizeBand
	variants  map[int64][]domain.Variant
	products  map[int64]domain.CatalogEntry
	err       error
	bandCalls int
}

func (f *fakeRepo) SizeBands(_ context.Context, id int64) ([]domain.SizeBand, error) {
	f.mu.Lock()
	f.bandCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.bands[id], nil
}

func (f *fakeRepo) Variants(_ context.Context, id int64) ([]domain.Variant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.variants[id], nil
}

func (f *fakeRepo) Product(_ context.Context, id int64) (domain.CatalogEntry, bool, error) {
	if f.err != nil {
		return domain.CatalogEntry{}, false, f.err
	}
	p, ok := f.products[id]
	return p, ok, nil
}

type fakeRemote struct {
	mu    sync.Mutex
	calls []ports.EstimateRequest
	fn    func(ctx context.Context, req ports.EstimateRequest) (ports.EstimateResult, error)
}

func (f *fakeRemote) Calculate(ctx context.Context, req ports.EstimateRequest) (ports.EstimateResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.fn(ctx, req)
}

var errUnavailable = errors.New("connection refused")

func downRemote() *fakeRemote {
	return &fakeRemote{fn: func(context.Context, ports.EstimateRequest) (ports.EstimateResult, error) {
		return ports.EstimateResult{}, errUnavailable
	}}
}

func doorRepo() *fakeRepo {
	return &fakeRepo{
		products: map[int64]domain.CatalogEntry{
			51: {ID: 51, CompanyID: 1, Name: "ABS flat door", BasePrice: 100000},
			52: {ID: 52, CompanyID: 1, Name: "Interlock door", BasePrice: 0},
			53: {ID: 53, CompanyID: 1, Name: "Frame", BasePrice: 5000},
		},
		bands: map[int64][]domain.SizeBand{
			52: {
				{ID: 1, ProductID: 52, MaxWidth: 1300, MaxHeight: 2300, Price: 900000},
				{ID: 2, ProductID: 52, MaxWidth: 1000, MaxHeight: 2300, Price: 700000},
			},
		},
		variants: map[int64][]domain.Variant{
			53: {
				{ID: 7, ProductID: 53, SpecName: "110", TypeName: "standard", Price: 15000},
				{ID: 8, ProductID: 53, SpecName: "140", TypeName: "standard", Price: 12000},
			},
		},
	}
}

func TestResolveABSDoorScenario(t *testing.T) {
	r := New(downRemote(), doorRepo(), nil, Options{})
	order := domain.Order{Items: []domain.LineItem{
		{ProductID: 51, CompanyID: 1, Width: 900, Height: 2100, Quantity: 5},
	}}

	got := r.Resolve(context.Background(), order)
	require.Len(t, got.Items, 1)
	it := got.Items[0]
	assert.Equal(t, int64(51), it.ProductID)
	assert.Equal(t, 900, it.Width)
	assert.Equal(t, 2100, it.Height)
	assert.Equal(t, 5, it.Quantity)
	assert.Equal(t, int64(100000), it.UnitPrice)
	assert.Equal(t, int64(500000), it.TotalPrice)
	assert.Equal(t, domain.PriceSourceBase, it.PriceSource)
	assert.Equal(t, int64(500000), got.TotalAmount)
}

func TestResolveRemoteWinsAndSendsDimensionsOnlyWhenBothSet(t *testing.T) {
	remote := &fakeRemote{fn: func(_ context.Context, req ports.EstimateRequest) (ports.EstimateResult, error) {
		return ports.EstimateResult{UnitPrice: 1234, TotalPrice: 1234 * int64(req.Quantity)}, nil
	}}
	r := New(remote, doorRepo(), nil, Options{})

	got := r.Resolve(context.Background(), domain.Order{Items: []domain.LineItem{
		{ProductID: 51, CompanyID: 1, Width: 900, Height: 2100, Quantity: 2},
		{ProductID: 51, CompanyID: 1, Width: 900, Height: 0, Quantity: 1},
		{ProductID: 53, CompanyID: 1, Quantity: 3, SpecName: "110"},
	}})

	require.Len(t, remote.calls, 3)
	byQty := map[int]ports.EstimateRequest{}
	for _, c := range remote.calls {
		byQty[c.Quantity] = c
	}
	assert.Equal(t, 900, byQty[2].Width)
	assert.Equal(t, 2100, byQty[2].Height)
	assert.Zero(t, byQty[1].Width)
	assert.Zero(t, byQty[1].Height)
	assert.Equal(t, "110", byQty[3].SpecName)
	assert.Equal(t, int64(1), byQty[3].CompanyID)

	for _, it := range got.Items {
		assert.Equal(t, domain.PriceSourceRemote, it.PriceSource)
		assert.Equal(t, int64(1234), it.UnitPrice)
	}
	assert.Equal(t, int64(1234*6), got.TotalAmount)
}

func TestResolveOneRemoteTimeoutAmongThree(t *testing.T) {
	remote := &fakeRemote{fn: func(ctx context.Context, req ports.EstimateRequest) (ports.EstimateResult, error) {
		if req.ProductID == 51 {
			<-ctx.Done()
			return ports.EstimateResult{}, ctx.Err()
		}
		return ports.EstimateResult{UnitPrice: 777, TotalPrice: 777 * int64(req.Quantity)}, nil
	}}
	metricsReg := metrics.NewRegistry()
	r := New(remote, doorRepo(), nil, Options{RemoteTimeout: 20 * time.Millisecond, Concurrency: 3, Metrics: metricsReg})

	got := r.Resolve(context.Background(), domain.Order{Items: []domain.LineItem{
		{ProductID: 53, CompanyID: 1, Quantity: 1},
		{ProductID: 51, CompanyID: 1, Quantity: 2},
		{ProductID: 52, CompanyID: 1, Width: 900, Height: 2000, Quantity: 1},
	}})

	require.Len(t, got.Items, 3)
	assert.Equal(t, domain.PriceSourceRemote, got.Items[0].PriceSource)
	assert.Equal(t, domain.PriceSourceBase, got.Items[1].PriceSource)
	assert.Equal(t, int64(200000), got.Items[1].TotalPrice)
	assert.Equal(t, domain.PriceSourceRemote, got.Items[2].PriceSource)
	assert.Equal(t, int64(777+200000+777), got.TotalAmount)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsReg.RemoteFailures))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsReg.PriceSource.WithLabelValues("remote")))
}

func TestResolveZeroSizeSkipsMatrix(t *testing.T) {
	repo := doorRepo()
	r := New(nil, repo, nil, Options{})

	got := r.ResolveItem(context.Background(), domain.LineItem{ProductID: 52, Quantity: 1})
	assert.Equal(t, 0, repo.bandCalls)
	assert.Equal(t, domain.PriceSourceBase, got.PriceSource)

	got = r.ResolveItem(context.Background(), domain.LineItem{ProductID: 52, Width: 1200, Quantity: 1})
	assert.Equal(t, 0, repo.bandCalls)
	assert.Equal(t, domain.PriceSourceBase, got.PriceSource)
}

func TestResolveLocalTiers(t *testing.T) {
	r := New(downRemote(), doorRepo(), nil, Options{})

	tests := []struct {
		name   string
		item   domain.LineItem
		unit   int64
		source domain.PriceSource
	}{
		{"smallest covering band", domain.LineItem{ProductID: 52, Width: 900, Height: 2100, Quantity: 1}, 700000, domain.PriceSourceMatrix},
		{"wider band", domain.LineItem{ProductID: 52, Width: 1100, Height: 2100, Quantity: 1}, 900000, domain.PriceSourceMatrix},
		{"too large falls to base", domain.LineItem{ProductID: 52, Width: 1500, Height: 2100, Quantity: 1}, 0, domain.PriceSourceBase},
		{"cheapest variant", domain.LineItem{ProductID: 53, Quantity: 1}, 12000, domain.PriceSourceVariant},
		{"named variant", domain.LineItem{ProductID: 53, Quantity: 1, SpecName: "110"}, 15000, domain.PriceSourceVariant},
		{"variant before base with size", domain.LineItem{ProductID: 53, Width: 900, Height: 2100, Quantity: 1}, 12000, domain.PriceSourceVariant},
		{"unknown product", domain.LineItem{ProductID: 999, Quantity: 4}, 0, domain.PriceSourceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveItem(context.Background(), tt.item)
			assert.Equal(t, tt.unit, got.UnitPrice)
			assert.Equal(t, tt.source, got.PriceSource)
			assert.Equal(t, tt.unit*int64(tt.item.Quantity), got.TotalPrice)
		})
	}
}

func TestResolveStoreErrorsDegradeToZero(t *testing.T) {
	reg := metrics.NewRegistry()
	r := New(downRemote(), &fakeRepo{err: errors.New("db down")}, nil, Options{Metrics: reg})

	got := r.Resolve(context.Background(), domain.Order{Items: []domain.LineItem{
		{ProductID: 51, Width: 900, Height: 2100, Quantity: 2},
		{ProductID: 52, Quantity: 1},
	}})
	require.Len(t, got.Items, 2)
	for _, it := range got.Items {
		assert.Zero(t, it.UnitPrice)
		assert.Zero(t, it.TotalPrice)
		assert.Equal(t, domain.PriceSourceNone, it.PriceSource)
	}
	assert.Zero(t, got.TotalAmount)
	assert.Equal(t, float64(2), testutil.ToFloat64(reg.PricingAnomalies))
}

func TestResolveOverridesProposedPrices(t *testing.T) {
	r := New(nil, doorRepo(), nil, Options{})
	got := r.Resolve(context.Background(), domain.Order{
		Items:       []domain.LineItem{{ProductID: 51, Quantity: 1, UnitPrice: 1, TotalPrice: 1, PriceSource: domain.PriceSourceRemote}},
		TotalAmount: 1,
	})
	assert.Equal(t, int64(100000), got.Items[0].UnitPrice)
	assert.Equal(t, domain.PriceSourceBase, got.Items[0].PriceSource)
	assert.Equal(t, int64(100000), got.TotalAmount)
}

func TestResolveTotalsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	remote := &fakeRemote{fn: func(_ context.Context, req ports.EstimateRequest) (ports.EstimateResult, error) {
		if req.ProductID%2 == 0 {
			return ports.EstimateResult{}, errUnavailable
		}
		return ports.EstimateResult{UnitPrice: req.ProductID * 10, TotalPrice: 1}, nil
	}}
	r := New(remote, doorRepo(), nil, Options{Concurrency: 4})

	for round := 0; round < 50; round++ {
		n := rng.Intn(8)
		order := domain.Order{TotalAmount: rng.Int63()}
		for i := 0; i < n; i++ {
			order.Items = append(order.Items, domain.LineItem{
				ProductID:  int64(rng.Intn(60) + 1),
				Width:      rng.Intn(2) * 900,
				Height:     rng.Intn(2) * 2100,
				Quantity:   rng.Intn(9) + 1,
				UnitPrice:  rng.Int63n(1000),
				TotalPrice: rng.Int63n(1000),
			})
		}
		got := r.Resolve(context.Background(), order)
		var sum int64
		for _, it := range got.Items {
			assert.Equal(t, it.UnitPrice*int64(it.Quantity), it.TotalPrice)
			sum += it.TotalPrice
		}
		assert.Equal(t, sum, got.TotalAmount)
	}
}

func TestMatchBand(t *testing.T) {
	bands := []domain.SizeBand{
		{ID: 1, MaxWidth: 1000, MaxHeight: 2400, Price: 500},
		{ID: 2, MaxWidth: 1000, MaxHeight: 2100, Price: 400},
		{ID: 3, MaxWidth: 800, MaxHeight: 2100, Price: 300},
		{ID: 4, MaxWidth: 1000, MaxHeight: 2100, Price: 350},
		{ID: 5, MaxWidth: 1000, MaxHeight: 2100, Price: 350},
	}

	b, ok := MatchBand(bands, 900, 2000)
	require.True(t, ok)
	assert.Equal(t, int64(4), b.ID, "tie on size resolves to lowest price, then lowest id")

	b, ok = MatchBand(bands, 700, 2000)
	require.True(t, ok)
	assert.Equal(t, int64(3), b.ID)

	b, ok = MatchBand(bands, 1000, 2200)
	require.True(t, ok)
	assert.Equal(t, int64(1), b.ID)

	_, ok = MatchBand(bands, 1001, 100)
	assert.False(t, ok)
	_, ok = MatchBand(nil, 1, 1)
	assert.False(t, ok)
}

func TestPickVariant(t *testing.T) {
	vs := []domain.Variant{
		{ID: 3, SpecName: "110", TypeName: "3-way", Price: 9000},
		{ID: 1, SpecName: "140", TypeName: "3-way", Price: 8000},
		{ID: 2, SpecName: "140", TypeName: "4-way", Price: 8000},
	}
	v, ok := PickVariant(vs, "", "")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.ID)

	v, _ = PickVariant(vs, "140", "4-WAY")
	assert.Equal(t, int64(2), v.ID)

	v, _ = PickVariant(vs, "110", "")
	assert.Equal(t, int64(3), v.ID)

	v, _ = PickVariant(vs, "999", "")
	assert.Equal(t, int64(1), v.ID)

	_, ok = PickVariant(nil, "110", "")
	assert.False(t, ok)
}
