package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/dashboard"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/infrastructure/memory"
)

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()
	for i, p := range []struct {
		sku          string
		price, stock int64
		min          int64
	}{
		{"A", 10, 3, 5},  // bajo mínimo
		{"B", 2, 50, 5},
		{"C", 1, 5, 5},   // en el mínimo también cuenta como bajo
	} {
		require.NoError(t, store.Products().Create(ctx, &entity.Product{
			ID: p.sku, SKU: p.sku, Name: p.sku,
			Price: decimal.NewFromInt(p.price), MinStockLevel: decimal.NewFromInt(p.min),
			CurrentStock: decimal.NewFromInt(p.stock), CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}
	for i := 0; i < 7; i++ {
		require.NoError(t, store.Moves().Create(ctx, &entity.StockMove{
			ProductID: "A", Reference: "WH/IN/000" + string(rune('1'+i)), Quantity: decimal.NewFromInt(1),
		}))
	}

	sum, err := dashboard.NewDashboardUseCase(store.Products(), store.Moves()).GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalProducts)
	assert.True(t, sum.TotalValue.Equal(decimal.NewFromInt(135)), "10×3 + 2×50 + 1×5")
	assert.Equal(t, 2, sum.LowStockCount)
	require.Len(t, sum.RecentMoves, 5)
	assert.Equal(t, "WH/IN/0007", sum.RecentMoves[0].Reference)
}
