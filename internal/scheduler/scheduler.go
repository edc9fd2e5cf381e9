// Package scheduler programa la conciliación periódica entre stock y ledger.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockops-api/internal/application/dto"
)

const reconcileTimeout = 2 * time.Minute

// Reconciler lo implementa ledger.LedgerUseCase.
type Reconciler interface {
	Reconcile(ctx context.Context) (*dto.ReconciliationReportDTO, error)
}

// Scheduler gestiona las tareas programadas.
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	spec       string
	log        zerolog.Logger
}

// NewScheduler crea el scheduler. spec usa el formato estándar de 5 campos o descriptores (@every 1h, @daily).
func NewScheduler(spec string, reconciler Reconciler, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		spec:       spec,
		log:        log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registra la conciliación y arranca el cron. Un spec vacío no programa nada.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.log.Info().Msg("conciliación programada desactivada")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.reconcile); err != nil {
		return fmt.Errorf("programar conciliación %q: %w", s.spec, err)
	}
	s.log.Info().Str("spec", s.spec).Msg("iniciando scheduler")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine la tarea en curso.
func (s *Scheduler) Stop() {
	s.log.Info().Msg("deteniendo scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	report, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("conciliación programada fallida")
		return
	}
	if len(report.Drifts) > 0 {
		s.log.Warn().Int("drifts", len(report.Drifts)).Msg("conciliación programada con descuadres")
	}
}
