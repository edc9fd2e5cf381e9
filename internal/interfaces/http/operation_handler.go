package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/domain"
)

// OperationHandler maneja las operaciones de stock (protegido).
type OperationHandler struct {
	uc    *operation.OperationUseCase
	pdfUC *operation.PDFUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *operation.OperationUseCase, pdfUC *operation.PDFUseCase) *OperationHandler {
	return &OperationHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear operación
// @Description  Crea la operación en draft y le asigna la siguiente referencia del tipo (WH/IN/0001...).
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperationRequest  true  "type, partner, items..."
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "receipt | delivery | internal | adjustment"
// @Param        status  query  string  false  "draft | waiting | ready | done | canceled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OperationListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	out, err := h.uc.List(c.UserContext(), c.Query("type"), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar operación en draft
// @Description  Si se envía items, reemplaza todas las líneas.
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la operación"
// @Param        body  body  dto.UpdateOperationRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [put]
func (h *OperationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar operación
// @Description  Aplica la operación al stock, registra los movimientos y la pasa a done.
// @Description  Si falta stock en alguna línea no se aplica nada.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      400  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK, ALREADY_VALIDATED, INVALID_STATE, MISSING_FIELD"
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/validate [post]
func (h *OperationHandler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.Validate(c.UserContext(), GetUserID(c), c.Params("id"))
	if errors.Is(err, domain.ErrAlreadyValidated) && out != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Kind:    KindAlreadyValidated,
			Message: fmt.Sprintf("la operación %s ya fue validada", out.Reference),
			Details: map[string]any{"operation": out},
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/cancel [post]
func (h *OperationHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Comprobante PDF de la operación
// @Tags         operations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/pdf [get]
func (h *OperationHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadSlipPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
