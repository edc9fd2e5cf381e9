package stock_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/stock"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func mustRule(t *testing.T, typ entity.OperationType) stock.Rule {
	t.Helper()
	r, err := stock.RuleFor(typ)
	require.NoError(t, err)
	return r
}

func TestRuleFor_TipoDesconocido(t *testing.T) {
	_, err := stock.RuleFor(entity.OperationType("scrap"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReceipt_SumaStockConUbicacionesPorDefecto(t *testing.T) {
	eff, err := mustRule(t, entity.OperationReceipt).Apply(stock.Line{Current: dec(10), Quantity: dec(5)})
	require.NoError(t, err)

	assert.True(t, eff.Delta.Equal(dec(5)))
	assert.True(t, eff.MoveQuantity.Equal(dec(5)))
	assert.True(t, eff.BalanceAfter.Equal(dec(15)))
	assert.Equal(t, "Vendor", eff.LocationFrom)
	assert.Equal(t, "WH/Stock", eff.LocationTo)
	assert.True(t, eff.MutatesStock())
}

func TestReceipt_RespetaUbicacionesDeLaOperacion(t *testing.T) {
	eff, err := mustRule(t, entity.OperationReceipt).Apply(stock.Line{
		Current: dec(0), Quantity: dec(1), SourceLocation: "Proveedor ACME", DestinationLocation: "WH/Rack-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Proveedor ACME", eff.LocationFrom)
	assert.Equal(t, "WH/Rack-2", eff.LocationTo)
}

func TestDelivery_RestaStock(t *testing.T) {
	eff, err := mustRule(t, entity.OperationDelivery).Apply(stock.Line{Current: dec(10), Quantity: dec(10)})
	require.NoError(t, err)
	assert.True(t, eff.Delta.Equal(dec(-10)))
	assert.True(t, eff.MoveQuantity.Equal(dec(-10)))
	assert.True(t, eff.BalanceAfter.IsZero())
	assert.Equal(t, "WH/Stock", eff.LocationFrom)
	assert.Equal(t, "Customer", eff.LocationTo)
}

func TestDelivery_StockInsuficiente(t *testing.T) {
	_, err := mustRule(t, entity.OperationDelivery).Apply(stock.Line{
		ProductID: "p1", ProductName: "Tornillo", Current: dec(0), Quantity: dec(1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Tornillo", ise.ProductName)
	assert.True(t, ise.Available.IsZero())
	assert.True(t, ise.Requested.Equal(dec(1)))
}

func TestInternal_NoMutaStockPeroExigeSuficiencia(t *testing.T) {
	r := mustRule(t, entity.OperationInternal)
	assert.Equal(t, "Internal Transfer", r.Label())

	eff, err := r.Apply(stock.Line{Current: dec(8), Quantity: dec(3)})
	require.NoError(t, err)
	assert.False(t, eff.MutatesStock())
	assert.True(t, eff.MoveQuantity.Equal(dec(3)))
	assert.True(t, eff.BalanceAfter.Equal(dec(8)))
	assert.Equal(t, "WH/Stock", eff.LocationFrom)
	assert.Equal(t, "WH/Production", eff.LocationTo)

	_, err = r.Apply(stock.Line{Current: dec(2), Quantity: dec(3)})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestAdjustment_DeltaNegativoInvierteUbicaciones(t *testing.T) {
	eff, err := mustRule(t, entity.OperationAdjustment).Apply(stock.Line{Current: dec(20), Quantity: dec(-5)})
	require.NoError(t, err)
	assert.True(t, eff.BalanceAfter.Equal(dec(15)))
	assert.True(t, eff.MoveQuantity.Equal(dec(-5)))
	assert.Equal(t, "WH/Stock", eff.LocationFrom)
	assert.Equal(t, "Virtual/Adjustment", eff.LocationTo)
}

func TestAdjustment_PositivoYSinControlDeSuficiencia(t *testing.T) {
	r := mustRule(t, entity.OperationAdjustment)

	eff, err := r.Apply(stock.Line{Current: dec(0), Quantity: dec(4)})
	require.NoError(t, err)
	assert.Equal(t, "Virtual/Adjustment", eff.LocationFrom)
	assert.Equal(t, "WH/Stock", eff.LocationTo)

	// El ajuste puede dejar el stock negativo.
	eff, err = r.Apply(stock.Line{Current: dec(1), Quantity: dec(-3)})
	require.NoError(t, err)
	assert.True(t, eff.BalanceAfter.Equal(dec(-2)))
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, stock.ValidateQuantity(entity.OperationReceipt, dec(1)))
	assert.ErrorIs(t, stock.ValidateQuantity(entity.OperationReceipt, dec(0)), domain.ErrInvalidInput)
	assert.ErrorIs(t, stock.ValidateQuantity(entity.OperationDelivery, dec(-1)), domain.ErrInvalidInput)
	assert.NoError(t, stock.ValidateQuantity(entity.OperationAdjustment, dec(-1)))
	assert.ErrorIs(t, stock.ValidateQuantity(entity.OperationAdjustment, dec(0)), domain.ErrInvalidInput)
}

func TestMoveDescription(t *testing.T) {
	assert.Equal(t, "Receipt WH/IN/0007", stock.MoveDescription(mustRule(t, entity.OperationReceipt), "WH/IN/0007"))
	assert.Equal(t, "Adjustment WH/ADJ/0001", stock.MoveDescription(mustRule(t, entity.OperationAdjustment), "WH/ADJ/0001"))
}
