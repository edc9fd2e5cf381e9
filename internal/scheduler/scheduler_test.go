package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/dto"
)

type fakeReconciler struct {
	calls atomic.Int32
	err   error
}

func (f *fakeReconciler) Reconcile(ctx context.Context) (*dto.ReconciliationReportDTO, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("sin deadline")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ReconciliationReportDTO{Drifts: []dto.StockDriftDTO{{SKU: "A"}}}, nil
}

func TestStart_SpecInvalido(t *testing.T) {
	s := NewScheduler("no es cron", &fakeReconciler{}, zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestStart_SpecVacioNoPrograma(t *testing.T) {
	s := NewScheduler("", &fakeReconciler{}, zerolog.Nop())
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
	s.Stop()
}

func TestStart_ProgramaConciliacion(t *testing.T) {
	s := NewScheduler("@every 1h", &fakeReconciler{}, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Len(t, s.cron.Entries(), 1)
}

func TestReconcile_UsaTimeoutYToleraErrores(t *testing.T) {
	rec := &fakeReconciler{}
	s := NewScheduler("@every 1h", rec, zerolog.Nop())
	s.reconcile()
	assert.Equal(t, int32(1), rec.calls.Load())

	rec.err = errors.New("db caída")
	s.reconcile()
	assert.Equal(t, int32(2), rec.calls.Load())
}
