package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderRecompute(t *testing.T) {
	o := Order{
		Items: []LineItem{
			{ProductID: 1, Quantity: 5, UnitPrice: 100000, TotalPrice: 7},
			{ProductID: 2, Quantity: 2, UnitPrice: 2500},
			{ProductID: 3, Quantity: 1, UnitPrice: 0},
		},
		TotalAmount: 42,
	}
	o.Recompute()

	assert.Equal(t, int64(500000), o.Items[0].TotalPrice)
	assert.Equal(t, int64(5000), o.Items[1].TotalPrice)
	assert.Equal(t, int64(0), o.Items[2].TotalPrice)
	assert.Equal(t, int64(505000), o.TotalAmount)
}

func TestLineItemHasSize(t *testing.T) {
	assert.True(t, LineItem{Width: 900, Height: 2100}.HasSize())
	assert.False(t, LineItem{Width: 900}.HasSize())
	assert.False(t, LineItem{Height: 2100}.HasSize())
	assert.False(t, LineItem{}.HasSize())
}
