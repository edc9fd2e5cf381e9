package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/ledger"
)

// MoveHandler consulta del ledger y conciliación (protegido).
type MoveHandler struct {
	uc *ledger.LedgerUseCase
}

// NewMoveHandler construye el handler.
func NewMoveHandler(uc *ledger.LedgerUseCase) *MoveHandler {
	return &MoveHandler{uc: uc}
}

// List godoc
// @Summary      Movimientos de stock
// @Description  Ledger del más reciente al más antiguo.
// @Tags         moves
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        reference   query  string  false  "Filtrar por referencia (WH/IN/0001)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockMoveListResponse
// @Router       /api/moves [get]
func (h *MoveHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	out, err := h.uc.List(c.UserContext(), c.Query("product_id"), c.Query("reference"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliación stock vs ledger
// @Description  Compara el stock de cada producto con la suma de sus movimientos. No corrige.
// @Tags         moves
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliationReportDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/moves/reconciliation [get]
func (h *MoveHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
