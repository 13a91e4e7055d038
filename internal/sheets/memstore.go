package sheets

import (
	"context"
	"sync"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// FailFunc decides whether a MemoryStore call fails. Returning nil lets the
// call through.
type FailFunc func(op, worksheet string) error

// MemoryStore is an in-process Store. Worksheets keep their creation order.
type MemoryStore struct {
	mu     sync.Mutex
	handle string
	order  []string
	tables map[string]*types.Table
	fail   FailFunc
	calls  map[string]int
}

func NewMemoryStore(handle string) *MemoryStore {
	return &MemoryStore{
		handle: handle,
		tables: make(map[string]*types.Table),
		calls:  make(map[string]int),
	}
}

// Put stores a copy of t as worksheet, replacing any previous content.
func (m *MemoryStore) Put(worksheet string, t *types.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[worksheet]; !ok {
		m.order = append(m.order, worksheet)
	}
	if t == nil {
		t = &types.Table{}
	}
	m.tables[worksheet] = t.Clone()
}

// Table returns a copy of worksheet's content, or nil.
func (m *MemoryStore) Table(worksheet string) *types.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[worksheet].Clone()
}

// FailWith installs fn to inject failures; nil removes it.
func (m *MemoryStore) FailWith(fn FailFunc) {
	m.mu.Lock()
	m.fail = fn
	m.mu.Unlock()
}

// Calls reports how many times op was invoked, failed calls included.
func (m *MemoryStore) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// begin counts the call and runs the failure hook. m.mu must be held.
func (m *MemoryStore) begin(ctx context.Context, op, worksheet string) error {
	m.calls[op]++
	if err := ctx.Err(); err != nil {
		return newError(op, worksheet, err)
	}
	if m.fail != nil {
		if err := m.fail(op, worksheet); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Handle() string {
	return m.handle
}

func (m *MemoryStore) ListWorksheets(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, OpListWorksheets, ""); err != nil {
		return nil, err
	}
	return append([]string(nil), m.order...), nil
}

func (m *MemoryStore) ReadTable(ctx context.Context, worksheet string) (*types.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, OpReadTable, worksheet); err != nil {
		return nil, err
	}
	t, ok := m.tables[worksheet]
	if !ok {
		return nil, newError(OpReadTable, worksheet, ErrNotFound)
	}
	return t.Clone(), nil
}

func (m *MemoryStore) WriteHeaderCell(ctx context.Context, worksheet string, col int, header string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, OpWriteHeader, worksheet); err != nil {
		return err
	}
	return m.set(OpWriteHeader, worksheet, types.Cell{Row: 1, Col: col, Value: header})
}

func (m *MemoryStore) WriteCell(ctx context.Context, worksheet string, cell types.Cell) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, OpWriteCell, worksheet); err != nil {
		return err
	}
	return m.set(OpWriteCell, worksheet, cell)
}

func (m *MemoryStore) WriteCells(ctx context.Context, worksheet string, cells []types.Cell) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, OpWriteCells, worksheet); err != nil {
		return err
	}
	for _, cell := range cells {
		if err := m.set(OpWriteCells, worksheet, cell); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) ReplaceWorksheet(ctx context.Context, worksheet string, table *types.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, OpReplaceWorksheet, worksheet); err != nil {
		return err
	}
	if table == nil {
		table = &types.Table{}
	}
	if _, ok := m.tables[worksheet]; !ok {
		m.order = append(m.order, worksheet)
	}
	m.tables[worksheet] = table.Clone()
	return nil
}

// set writes one cell, growing the table as needed. m.mu must be held.
func (m *MemoryStore) set(op, worksheet string, cell types.Cell) error {
	t, ok := m.tables[worksheet]
	if !ok {
		return newError(op, worksheet, ErrNotFound)
	}
	if cell.Row < 1 || cell.Col < 1 {
		return newError(op, worksheet, ErrInvalidCell)
	}
	if cell.Row == 1 {
		t.Headers = grow(t.Headers, cell.Col)
		t.Headers[cell.Col-1] = cell.Value
		return nil
	}
	for len(t.Rows) < cell.Row-1 {
		t.Rows = append(t.Rows, nil)
	}
	row := grow(t.Rows[cell.Row-2], cell.Col)
	row[cell.Col-1] = cell.Value
	t.Rows[cell.Row-2] = row
	return nil
}

func grow(s []string, n int) []string {
	for len(s) < n {
		s = append(s, "")
	}
	return s
}
