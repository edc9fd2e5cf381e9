// Package pdf implementa el comprobante imprimible de una operación de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de operación   │  Referencia + Estado          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RUTA: Origen -> Destino / Contacto / Fecha programada        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | SKU | Producto | Unidad | Cantidad | Hecho       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de la referencia + firmas                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/stock"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ operation.SlipPDFGenerator = (*MarotoSlipGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSlipGenerator implementa operation.SlipPDFGenerator usando Maroto v2.
type MarotoSlipGenerator struct {
	warehouse string // nombre impreso en la cabecera
}

// NewMarotoSlipGenerator construye el generador.
func NewMarotoSlipGenerator(warehouse string) *MarotoSlipGenerator {
	return &MarotoSlipGenerator{warehouse: warehouse}
}

// GenerateOperationPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoSlipGenerator) GenerateOperationPDF(_ context.Context, op *entity.StockOperation, lines []operation.SlipLine) ([]byte, error) {
	label := string(op.Type)
	if rule, err := stock.RuleFor(op.Type); err == nil {
		label = rule.Label()
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(label+" "+op.Reference, true).
		WithAuthor(g.warehouse, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.warehouse, label, op))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(op))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(op))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega + tipo (izq) y referencia + estado (der).
func headerRow(warehouse, label string, op *entity.StockOperation) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(warehouse, "Bodega"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.ToUpper(label), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(op.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+string(op.Status), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Programada: "+op.ScheduleDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// routeRow: ubicaciones y contacto.
func routeRow(op *entity.StockOperation) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("RUTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s  ->  %s",
				nonEmpty(op.SourceLocation, "—"),
				nonEmpty(op.DestinationLocation, "—"),
			), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Contacto: %s   |   Responsable: %s   |   Dirección: %s",
				nonEmpty(op.Partner, "—"),
				nonEmpty(op.Responsible, "—"),
				nonEmpty(op.DeliveryAddress, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Cantidad", 2, align.Right),
		h("Hecho", 2, align.Right),
	)
}

// tableLineRows: una fila por línea de la operación.
func tableLineRows(lines []operation.SlipLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Position), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(l.SKU, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(nonEmpty(l.Unit, "—"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(l.DoneQuantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRow: QR con la referencia + espacio de firmas.
func footerRow(op *entity.StockOperation) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(op.Reference, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Entregado por: ______________________", props.Text{Size: 9, Top: 8, Left: 3}),
			text.New("Recibido por:  ______________________", props.Text{Size: 9, Top: 20, Left: 3}),
			text.New("Escanea el código para abrir la operación.", props.Text{
				Size: 7, Top: 32, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
