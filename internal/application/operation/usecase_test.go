package operation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
	"github.com/jhoicas/stockops-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-000000000001"

type fixture struct {
	ctx   context.Context
	store *memory.Store
	uc    *operation.OperationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	uc := operation.NewOperationUseCase(store, store.Operations(), store.Products(), store.Sequences(), zerolog.Nop())
	return &fixture{ctx: context.Background(), store: store, uc: uc}
}

func qty(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// addProduct registra un producto y, si stock != 0, lo lleva a ese nivel con un ajuste validado
// para que el ledger quede consistente con el stock.
func (f *fixture) addProduct(t *testing.T, sku string, stock, min int64) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), SKU: sku, Name: "Producto " + sku, UnitOfMeasure: "pcs",
		Price: decimal.NewFromInt(10), MinStockLevel: decimal.NewFromInt(min),
		CurrentStock: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	if stock != 0 {
		op := f.create(t, dto.CreateOperationRequest{
			Type:  "adjustment",
			Items: []dto.OperationItemRequest{{ProductID: p.ID, Quantity: qty(stock)}},
		})
		_, err := f.uc.Validate(f.ctx, testUserID, op.ID)
		require.NoError(t, err)
	}
	return p.ID
}

func (f *fixture) create(t *testing.T, in dto.CreateOperationRequest) *dto.OperationResponse {
	t.Helper()
	op, err := f.uc.Create(f.ctx, testUserID, in)
	require.NoError(t, err)
	return op
}

func (f *fixture) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func (f *fixture) moves(t *testing.T, productID string) []*entity.StockMove {
	t.Helper()
	list, err := f.store.Moves().List(f.ctx, repository.MoveFilter{ProductID: productID})
	require.NoError(t, err)
	return list
}

func (f *fixture) ledgerSum(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	sums, err := f.store.Moves().SumByProduct(f.ctx)
	require.NoError(t, err)
	return sums[productID]
}

func receipt(productID string, q int64) dto.CreateOperationRequest {
	return dto.CreateOperationRequest{
		Type: "receipt", Partner: "Proveedor ACME",
		Items: []dto.OperationItemRequest{{ProductID: productID, Quantity: qty(q)}},
	}
}

func delivery(productID string, q int64) dto.CreateOperationRequest {
	return dto.CreateOperationRequest{
		Type: "delivery", Partner: "Cliente Uno",
		Items: []dto.OperationItemRequest{{ProductID: productID, Quantity: qty(q)}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y referencias
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ReferenciasPorTipoIndependientes(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 100, 0)

	r1 := f.create(t, receipt(p, 1))
	d1 := f.create(t, delivery(p, 1))
	r2 := f.create(t, receipt(p, 1))
	r3 := f.create(t, receipt(p, 1))

	assert.Equal(t, "WH/IN/0001", r1.Reference)
	assert.Equal(t, "WH/OUT/0001", d1.Reference)
	assert.Equal(t, "WH/IN/0002", r2.Reference, "una entrega intermedia no afecta el contador de recepciones")
	assert.Equal(t, "WH/IN/0003", r3.Reference)
}

func TestCreate_DraftConUbicacionesPorDefecto(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)

	op := f.create(t, receipt(p, 5))
	assert.Equal(t, "draft", op.Status)
	assert.Equal(t, "Vendor", op.SourceLocation)
	assert.Equal(t, "WH/Stock", op.DestinationLocation)
	require.Len(t, op.Items, 1)
	assert.NotEmpty(t, op.Items[0].ID)
	assert.True(t, op.Items[0].DoneQuantity.IsZero())

	internal := f.create(t, dto.CreateOperationRequest{
		Type:  "internal",
		Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(1)}},
	})
	assert.Equal(t, "WH/Stock", internal.SourceLocation)
	assert.Equal(t, "WH/Production", internal.DestinationLocation)
	assert.Empty(t, internal.Partner, "internal no exige contraparte")
}

func TestCreate_ContinuaNumeracionDesdeDatosPrevios(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)
	legacy := &entity.StockOperation{
		ID: uuid.New().String(), Reference: "WH/IN/0041", Type: entity.OperationReceipt,
		Status: entity.StatusDone, Partner: "Legado", CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.Operations().Create(f.ctx, legacy))

	op := f.create(t, receipt(p, 1))
	assert.Equal(t, "WH/IN/0042", op.Reference)
}

func TestCreate_ErroresDeValidacion(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)

	cases := []struct {
		name string
		in   dto.CreateOperationRequest
		want error
	}{
		{"tipo desconocido", dto.CreateOperationRequest{Type: "scrap", Partner: "x",
			Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(1)}}}, domain.ErrInvalidInput},
		{"sin tipo", dto.CreateOperationRequest{Partner: "x",
			Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(1)}}}, domain.ErrMissingField},
		{"sin líneas", dto.CreateOperationRequest{Type: "receipt", Partner: "x"}, domain.ErrMissingField},
		{"línea sin cantidad", dto.CreateOperationRequest{Type: "receipt", Partner: "x",
			Items: []dto.OperationItemRequest{{ProductID: p}}}, domain.ErrMissingField},
		{"línea sin producto", dto.CreateOperationRequest{Type: "receipt", Partner: "x",
			Items: []dto.OperationItemRequest{{Quantity: qty(1)}}}, domain.ErrMissingField},
		{"producto inexistente", dto.CreateOperationRequest{Type: "receipt", Partner: "x",
			Items: []dto.OperationItemRequest{{ProductID: "no-existe", Quantity: qty(1)}}}, domain.ErrNotFound},
		{"recepción sin contraparte", receipt(p, 1), nil},
		{"entrega con cantidad negativa", dto.CreateOperationRequest{Type: "delivery", Partner: "x",
			Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(-1)}}}, domain.ErrInvalidInput},
		{"ajuste en cero", dto.CreateOperationRequest{Type: "adjustment",
			Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(0)}}}, domain.ErrInvalidInput},
	}
	cases[6].in.Partner = "  "
	cases[6].want = domain.ErrMissingField

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(f.ctx, testUserID, tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	list, err := f.uc.List(f.ctx, "", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Items, "ninguna creación fallida debe persistir")
}

// ──────────────────────────────────────────────────────────────────────────────
// Motor de validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_RecepcionSumaStockYRegistraLedger(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 3, 0)

	op := f.create(t, dto.CreateOperationRequest{
		Type: "receipt", Partner: "Proveedor ACME",
		Items: []dto.OperationItemRequest{
			{ProductID: p, Quantity: qty(4)},
			{ProductID: p, Quantity: qty(6)},
		},
	})
	done, err := f.uc.Validate(f.ctx, testUserID, op.ID)
	require.NoError(t, err)

	assert.Equal(t, "done", done.Status)
	require.NotNil(t, done.ValidatedAt)
	for _, it := range done.Items {
		assert.True(t, it.DoneQuantity.Equal(it.Quantity))
	}
	assert.True(t, f.stock(t, p).Equal(decimal.NewFromInt(13)), "3 + 4 + 6")

	moves := f.moves(t, p)
	last := moves[0]
	assert.True(t, last.BalanceAfter.Equal(f.stock(t, p)), "el último balance_after coincide con el stock")
	assert.Equal(t, "Receipt "+op.Reference, last.Description)
	assert.Equal(t, op.Reference, last.Reference)
	assert.Equal(t, "Vendor", last.LocationFrom)
	assert.Equal(t, "WH/Stock", last.LocationTo)
	assert.Equal(t, testUserID, last.CreatedBy)
}

func TestValidate_EntregaInsuficienteNoDejaCambios(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct(t, "SKU-A", 10, 0)
	b := f.addProduct(t, "SKU-B", 2, 0)
	movesBefore := len(f.moves(t, a)) + len(f.moves(t, b))

	op := f.create(t, dto.CreateOperationRequest{
		Type: "delivery", Partner: "Cliente Uno",
		Items: []dto.OperationItemRequest{
			{ProductID: a, Quantity: qty(5)}, // esta línea sí alcanza
			{ProductID: b, Quantity: qty(3)}, // esta no
		},
	})
	_, err := f.uc.Validate(f.ctx, testUserID, op.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Producto SKU-B", ise.ProductName)
	assert.True(t, ise.Available.Equal(decimal.NewFromInt(2)))
	assert.True(t, ise.Requested.Equal(decimal.NewFromInt(3)))

	assert.True(t, f.stock(t, a).Equal(decimal.NewFromInt(10)), "la línea previa también se deshace")
	assert.True(t, f.stock(t, b).Equal(decimal.NewFromInt(2)))
	assert.Equal(t, movesBefore, len(f.moves(t, a))+len(f.moves(t, b)), "sin asientos nuevos")

	again, err := f.uc.Get(f.ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", again.Status, "la operación queda en draft para corregir y reintentar")
	for _, it := range again.Items {
		assert.True(t, it.DoneQuantity.IsZero())
	}
}

func TestValidate_DosVecesEsIdempotente(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)
	op := f.create(t, receipt(p, 5))

	_, err := f.uc.Validate(f.ctx, testUserID, op.ID)
	require.NoError(t, err)
	stockAfterFirst := f.stock(t, p)
	movesAfterFirst := len(f.moves(t, p))

	again, err := f.uc.Validate(f.ctx, testUserID, op.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyValidated)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	require.NotNil(t, again, "devuelve el estado existente")
	assert.Equal(t, "done", again.Status)

	assert.True(t, f.stock(t, p).Equal(stockAfterFirst))
	assert.Len(t, f.moves(t, p), movesAfterFirst)
}

func TestValidate_AjusteNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 20, 0)

	op := f.create(t, dto.CreateOperationRequest{
		Type:  "adjustment",
		Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(-5)}},
	})
	_, err := f.uc.Validate(f.ctx, testUserID, op.ID)
	require.NoError(t, err)

	assert.True(t, f.stock(t, p).Equal(decimal.NewFromInt(15)))
	last := f.moves(t, p)[0]
	assert.True(t, last.Quantity.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, "WH/Stock", last.LocationFrom)
	assert.Equal(t, "Virtual/Adjustment", last.LocationTo)
	assert.Equal(t, "Adjustment "+op.Reference, last.Description)
}

func TestValidate_TrasladoInternoNoCambiaStock(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 8, 0)

	op := f.create(t, dto.CreateOperationRequest{
		Type:  "internal",
		Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(3)}},
	})
	_, err := f.uc.Validate(f.ctx, testUserID, op.ID)
	require.NoError(t, err)

	assert.True(t, f.stock(t, p).Equal(decimal.NewFromInt(8)))
	last := f.moves(t, p)[0]
	assert.True(t, last.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, last.BalanceAfter.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "Internal Transfer "+op.Reference, last.Description)

	tooMuch := f.create(t, dto.CreateOperationRequest{
		Type:  "internal",
		Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(9)}},
	})
	_, err = f.uc.Validate(f.ctx, testUserID, tooMuch.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestValidate_EscenarioStockACero(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-P", 10, 5)

	first := f.create(t, delivery(p, 10))
	_, err := f.uc.Validate(f.ctx, testUserID, first.ID)
	require.NoError(t, err)
	assert.True(t, f.stock(t, p).IsZero())

	second := f.create(t, delivery(p, 1))
	_, err = f.uc.Validate(f.ctx, testUserID, second.ID)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.True(t, ise.Available.IsZero())
	assert.True(t, ise.Requested.Equal(decimal.NewFromInt(1)))
}

func TestValidate_LedgerSumaIgualStock(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)

	steps := []dto.CreateOperationRequest{
		receipt(p, 30),
		delivery(p, 12),
		{Type: "internal", Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(5)}}},
		{Type: "adjustment", Items: []dto.OperationItemRequest{{ProductID: p, Quantity: qty(-3)}}},
		receipt(p, 7),
	}
	for _, in := range steps {
		op := f.create(t, in)
		_, err := f.uc.Validate(f.ctx, testUserID, op.ID)
		require.NoError(t, err)
	}

	assert.True(t, f.stock(t, p).Equal(decimal.NewFromInt(22)), "30 - 12 - 3 + 7")
	assert.True(t, f.ledgerSum(t, p).Equal(f.stock(t, p)), "Σ ledger (sin traslados) = stock actual")
}

func TestValidate_CanceladaNoSeValida(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)
	op := f.create(t, receipt(p, 1))

	_, err := f.uc.Cancel(f.ctx, op.ID)
	require.NoError(t, err)

	_, err = f.uc.Validate(f.ctx, testUserID, op.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.NotErrorIs(t, err, domain.ErrAlreadyValidated)
	assert.True(t, f.stock(t, p).IsZero())
}

func TestValidate_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Validate(f.ctx, testUserID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidate_ConcurrentesSobreMismoProducto(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 10, 0)

	ids := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		ids = append(ids, f.create(t, delivery(p, 1)).ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, short int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.uc.Validate(f.ctx, testUserID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 10, ok, "solo 10 entregas caben en un stock de 10")
	assert.Equal(t, 5, short)
	assert.True(t, f.stock(t, p).IsZero(), "el stock nunca queda negativo por carreras")
	assert.True(t, f.ledgerSum(t, p).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición, cancelación y listado
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_SoloEnDraft(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)
	op := f.create(t, receipt(p, 1))

	partner := "Otro proveedor"
	updated, err := f.uc.Update(f.ctx, op.ID, dto.UpdateOperationRequest{
		Partner: &partner,
		Items:   []dto.OperationItemRequest{{ProductID: p, Quantity: qty(9)}},
	})
	require.NoError(t, err)
	assert.Equal(t, partner, updated.Partner)
	assert.Equal(t, op.Reference, updated.Reference, "la referencia es inmutable")
	require.Len(t, updated.Items, 1)
	assert.True(t, updated.Items[0].Quantity.Equal(decimal.NewFromInt(9)))

	_, err = f.uc.Validate(f.ctx, testUserID, op.ID)
	require.NoError(t, err)
	assert.True(t, f.stock(t, p).Equal(decimal.NewFromInt(9)), "se valida con las líneas editadas")

	_, err = f.uc.Update(f.ctx, op.ID, dto.UpdateOperationRequest{Partner: &partner})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUpdate_RevalidaLineas(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)
	op := f.create(t, receipt(p, 1))

	_, err := f.uc.Update(f.ctx, op.ID, dto.UpdateOperationRequest{Items: []dto.OperationItemRequest{}})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	empty := ""
	_, err = f.uc.Update(f.ctx, op.ID, dto.UpdateOperationRequest{Partner: &empty})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = f.uc.Update(f.ctx, "no-existe", dto.UpdateOperationRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_Transiciones(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 0, 0)

	op := f.create(t, receipt(p, 1))
	canceled, err := f.uc.Cancel(f.ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", canceled.Status)

	_, err = f.uc.Cancel(f.ctx, op.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "canceled es terminal")

	done := f.create(t, receipt(p, 1))
	_, err = f.uc.Validate(f.ctx, testUserID, done.ID)
	require.NoError(t, err)
	_, err = f.uc.Cancel(f.ctx, done.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "done es terminal")
}

func TestList_FiltrosYOrden(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "SKU-1", 50, 0)

	f.create(t, receipt(p, 1))
	f.create(t, delivery(p, 1))
	last := f.create(t, receipt(p, 2))

	receipts, err := f.uc.List(f.ctx, "receipt", "", 20, 0)
	require.NoError(t, err)
	require.Len(t, receipts.Items, 2)
	assert.Equal(t, last.ID, receipts.Items[0].ID, "más reciente primero")

	drafts, err := f.uc.List(f.ctx, "", "draft", 20, 0)
	require.NoError(t, err)
	assert.Len(t, drafts.Items, 3, "el ajuste inicial ya está done")

	_, err = f.uc.List(f.ctx, "scrap", "", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
