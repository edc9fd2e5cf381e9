package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/auth"
	"github.com/jhoicas/stockops-api/internal/application/dashboard"
	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/application/ledger"
	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/application/usecase"
	"github.com/jhoicas/stockops-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockops-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stockops-api/internal/interfaces/http"
)

func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(store.Products()),
		UserUC:        usecase.NewUserUseCase(store.Users()),
		OperationUC:   operation.NewOperationUseCase(store, store.Operations(), store.Products(), store.Sequences(), log),
		OperationPDF:  operation.NewPDFUseCase(store.Operations(), store.Products(), pdf.NewMarotoSlipGenerator("Bodega")),
		LedgerUC:      ledger.NewLedgerUseCase(store.Moves(), store.Products(), log),
		DashboardUC:   dashboard.NewDashboardUseCase(store.Products(), store.Moves()),
		Replenishment: inventory.NewReplenishmentUseCase(store.Products()),
		AuthUC:        auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		JWTSecret:     testJWTSecret,
	})
	return app
}

// call ejecuta la petición y decodifica el cuerpo en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestOperationFlow(t *testing.T) {
	app := newTestAPI(t)
	manager := tokenForRole(t, "manager")
	staff := tokenForRole(t, "staff")

	// Producto (solo manager)
	status := call(t, app, http.MethodPost, "/api/products", staff, map[string]any{"sku": "tor-6", "name": "Tornillo"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var product dto.ProductResponse
	status = call(t, app, http.MethodPost, "/api/products", manager, map[string]any{
		"sku": " tor-6 ", "name": "Tornillo", "price": "2.5", "min_stock_level": "5",
	}, &product)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "TOR-6", product.SKU)
	assert.True(t, product.CurrentStock.IsZero())

	// Recepción de 10 creada por staff, validada por manager
	var receipt dto.OperationResponse
	status = call(t, app, http.MethodPost, "/api/operations", staff, map[string]any{
		"type": "receipt", "partner": "ACME",
		"items": []map[string]any{{"product_id": product.ID, "quantity": 10}},
	}, &receipt)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "WH/IN/0001", receipt.Reference)
	assert.Equal(t, "draft", receipt.Status)

	status = call(t, app, http.MethodPost, "/api/operations/"+receipt.ID+"/validate", staff, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var validated dto.OperationResponse
	status = call(t, app, http.MethodPost, "/api/operations/"+receipt.ID+"/validate", manager, nil, &validated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "done", validated.Status)

	// Revalidar: sin efectos
	var already dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/operations/"+receipt.ID+"/validate", manager, nil, &already)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ALREADY_VALIDATED", already.Kind)

	// Entrega mayor al stock
	var delivery dto.OperationResponse
	status = call(t, app, http.MethodPost, "/api/operations", manager, map[string]any{
		"type": "delivery", "partner": "Cliente",
		"items": []map[string]any{{"product_id": product.ID, "quantity": 11}},
	}, &delivery)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "WH/OUT/0001", delivery.Reference)

	var insufficient dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/operations/"+delivery.ID+"/validate", manager, nil, &insufficient)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", insufficient.Kind)
	assert.Equal(t, "Tornillo", insufficient.Details["product_name"])

	// Stock intacto y ledger con un asiento
	var got dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/"+product.ID, staff, nil, &got))
	assert.Equal(t, "10", got.CurrentStock.String())

	var moves dto.StockMoveListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/moves?product_id="+product.ID, staff, nil, &moves))
	require.Len(t, moves.Items, 1)
	assert.Equal(t, "Receipt WH/IN/0001", moves.Items[0].Description)

	// Conciliación solo manager, sin descuadres
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/moves/reconciliation", staff, nil, nil))
	var report dto.ReconciliationReportDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/moves/reconciliation", manager, nil, &report))
	assert.Empty(t, report.Drifts)
}

func TestOperationErrors(t *testing.T) {
	app := newTestAPI(t)
	manager := tokenForRole(t, "manager")

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/operations", manager, map[string]any{"type": "receipt", "partner": "ACME"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_FIELD", e.Kind)
	assert.Equal(t, "items", e.Details["field"])

	status = call(t, app, http.MethodPost, "/api/operations", manager, map[string]any{
		"type": "scrap", "items": []map[string]any{{"product_id": "x", "quantity": 1}},
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Kind)

	status = call(t, app, http.MethodGet, "/api/operations/no-existe", manager, nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Kind)

	status = call(t, app, http.MethodGet, "/api/operations", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestOperationPDF(t *testing.T) {
	app := newTestAPI(t)
	manager := tokenForRole(t, "manager")

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", manager,
		map[string]any{"sku": "A", "name": "Arandela"}, &product))
	var op dto.OperationResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/operations", manager, map[string]any{
		"type": "adjustment", "items": []map[string]any{{"product_id": product.ID, "quantity": -2}},
	}, &op))

	req := httptest.NewRequest(http.MethodGet, "/api/operations/"+op.ID+"/pdf", nil)
	req.Header.Set("Authorization", manager)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "WH_ADJ_0001.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestAuthRegisterLoginMe(t *testing.T) {
	app := newTestAPI(t)

	var user dto.UserResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/auth/register", "",
		map[string]any{"email": "Ana@Bodega.io", "password": "secreto123", "name": "Ana"}, &user))
	assert.Equal(t, "staff", user.Role)

	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/auth/register", "",
		map[string]any{"email": "ana@bodega.io", "password": "secreto123"}, nil))

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": "ana@bodega.io", "password": "secreto123"}, &login))
	require.NotEmpty(t, login.Token)

	var me dto.UserResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil, &me))
	assert.Equal(t, user.ID, me.ID)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": "ana@bodega.io", "password": "otra-clave"}, nil))
}
