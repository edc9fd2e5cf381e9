package operation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
	"github.com/jhoicas/stockops-api/internal/domain/stock"
)

// maxReferenceAttempts intentos de generar una referencia libre antes de fallar.
const maxReferenceAttempts = 3

// ReferenceGenerator asigna referencias WH/<TIPO>/NNNN a partir de un contador atómico por tipo.
// El contador se comporta como una secuencia de BD: los números consumidos por una creación
// fallida no se reutilizan.
type ReferenceGenerator struct {
	seqRepo repository.SequenceRepository
	opRepo  repository.StockOperationRepository
	log     zerolog.Logger
}

// NewReferenceGenerator construye el generador.
func NewReferenceGenerator(seqRepo repository.SequenceRepository, opRepo repository.StockOperationRepository, log zerolog.Logger) *ReferenceGenerator {
	return &ReferenceGenerator{seqRepo: seqRepo, opRepo: opRepo, log: log}
}

// Next devuelve la siguiente referencia del tipo.
func (g *ReferenceGenerator) Next(ctx context.Context, t entity.OperationType) (string, error) {
	n, err := g.seqRepo.Next(ctx, t, func(ctx context.Context) (int64, error) {
		return g.seed(ctx, t)
	})
	if err != nil {
		return "", fmt.Errorf("siguiente número de referencia: %w", err)
	}
	return stock.FormatReference(t, n), nil
}

// seed inicializa el contador desde la última referencia existente del tipo (datos previos al contador).
func (g *ReferenceGenerator) seed(ctx context.Context, t entity.OperationType) (int64, error) {
	last, err := g.opRepo.LastReference(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("última referencia: %w", err)
	}
	seed, malformed := stock.SeedFromLastReference(last)
	if malformed {
		g.log.Warn().
			Str("type", string(t)).
			Str("last_reference", last).
			Msg("referencia previa sin número final; el contador reinicia en 1")
	}
	return seed, nil
}
