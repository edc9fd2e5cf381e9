// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa en tests y en desarrollo (STORAGE_DRIVER=memory). Las transacciones se
// simulan con un lock global del store más snapshot y restauración ante error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ operation.TxRunner = (*Store)(nil)

type productRecord struct {
	p   entity.Product
	seq int64
}

type operationRecord struct {
	op  entity.StockOperation
	seq int64
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu         sync.Mutex
	seq        int64 // orden de inserción, desempate de "más reciente primero"
	products   map[string]*productRecord
	operations map[string]*operationRecord
	moves      []entity.StockMove
	sequences  map[entity.OperationType]int64
	users      map[string]entity.User
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*productRecord),
		operations: make(map[string]*operationRecord),
		sequences:  make(map[entity.OperationType]int64),
		users:      make(map[string]entity.User),
	}
}

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Operations devuelve el repositorio de operaciones fuera de transacción.
func (s *Store) Operations() *OperationRepo { return &OperationRepo{s: s} }

// Moves devuelve el ledger fuera de transacción.
func (s *Store) Moves() *MoveRepo { return &MoveRepo{s: s} }

// Sequences devuelve el contador de referencias fuera de transacción.
func (s *Store) Sequences() *SequenceRepo { return &SequenceRepo{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Run ejecuta fn con el store bloqueado. Si fn falla se restaura el estado previo,
// así ninguna escritura parcial queda visible.
func (s *Store) Run(ctx context.Context, fn func(
	opRepo repository.StockOperationRepository,
	productRepo repository.ProductRepository,
	moveRepo repository.StockMoveRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	err := fn(
		&OperationRepo{s: s, tx: true},
		&ProductRepo{s: s, tx: true},
		&MoveRepo{s: s, tx: true},
	)
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// guard toma el lock salvo que el llamador ya lo tenga (repos de transacción).
func (s *Store) guard(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

type snapshot struct {
	seq        int64
	products   map[string]*productRecord
	operations map[string]*operationRecord
	moves      []entity.StockMove
	sequences  map[entity.OperationType]int64
	users      map[string]entity.User
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		seq:        s.seq,
		products:   make(map[string]*productRecord, len(s.products)),
		operations: make(map[string]*operationRecord, len(s.operations)),
		moves:      append([]entity.StockMove(nil), s.moves...),
		sequences:  make(map[entity.OperationType]int64, len(s.sequences)),
		users:      make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.products {
		rec := *v
		snap.products[k] = &rec
	}
	for k, v := range s.operations {
		snap.operations[k] = &operationRecord{op: cloneOperation(v.op), seq: v.seq}
	}
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.seq = snap.seq
	s.products = snap.products
	s.operations = snap.operations
	s.moves = snap.moves
	s.sequences = snap.sequences
	s.users = snap.users
}

func cloneOperation(op entity.StockOperation) entity.StockOperation {
	out := op
	out.Items = append([]entity.OperationItem(nil), op.Items...)
	if op.ValidatedAt != nil {
		t := *op.ValidatedAt
		out.ValidatedAt = &t
	}
	return out
}

// page aplica limit/offset sobre n elementos. limit <= 0 significa sin límite.
func page(n, limit, offset int) (from, to int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	to = n
	if limit > 0 && offset+limit < n {
		to = offset + limit
	}
	return offset, to
}
