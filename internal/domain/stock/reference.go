// Package stock contiene las reglas puras del motor de operaciones de stock:
// formato de referencias y efecto de cada tipo de operación sobre el stock.
// No depende de persistencia; la capa de aplicación lo orquesta dentro de una transacción.
package stock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// Prefijos de referencia por tipo de operación.
const (
	PrefixReceipt    = "WH/IN/"
	PrefixDelivery   = "WH/OUT/"
	PrefixInternal   = "WH/INT/"
	PrefixAdjustment = "WH/ADJ/"
	PrefixUnknown    = "WH/OP/"
)

// ReferencePrefix devuelve el prefijo de referencia del tipo.
func ReferencePrefix(t entity.OperationType) string {
	switch t {
	case entity.OperationReceipt:
		return PrefixReceipt
	case entity.OperationDelivery:
		return PrefixDelivery
	case entity.OperationInternal:
		return PrefixInternal
	case entity.OperationAdjustment:
		return PrefixAdjustment
	default:
		return PrefixUnknown
	}
}

// FormatReference arma la referencia con el número rellenado a 4 dígitos (WH/IN/0007).
func FormatReference(t entity.OperationType, n int64) string {
	return fmt.Sprintf("%s%04d", ReferencePrefix(t), n)
}

// ParseReferenceNumber extrae el número final tras la última "/" (WH/IN/0005 -> 5).
// ok es false si el sufijo no es numérico.
func ParseReferenceNumber(ref string) (n int64, ok bool) {
	i := strings.LastIndex(ref, "/")
	if i < 0 || i == len(ref)-1 {
		return 0, false
	}
	suffix := ref[i+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SeedFromLastReference calcula el primer número de un contador nuevo a partir de la
// última referencia conocida del tipo. Sin referencia previa arranca en 1; con una
// referencia mal formada (legado) también reinicia en 1 y malformed lo indica.
func SeedFromLastReference(lastRef string) (seed int64, malformed bool) {
	if lastRef == "" {
		return 1, false
	}
	n, ok := ParseReferenceNumber(lastRef)
	if !ok {
		return 1, true
	}
	return n + 1, false
}
