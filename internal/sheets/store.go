// Package sheets is the spreadsheet store: one spreadsheet, one worksheet per
// course. The Google Sheets client is decorated with retries and a read cache;
// MemoryStore stands in for it in tests and local runs.
package sheets

import (
	"context"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// Store operations, used in errors, logs and metrics.
const (
	OpListWorksheets   = "list_worksheets"
	OpReadTable        = "read_table"
	OpWriteHeader      = "write_header"
	OpWriteCell        = "write_cell"
	OpWriteCells       = "write_cells"
	OpReplaceWorksheet = "replace_worksheet"
)

// Store reads and writes worksheets of one spreadsheet. Rows and columns are
// 1-based; row 1 holds the headers. Every call may block on the network and
// fail with a *Error.
type Store interface {
	// Handle identifies the spreadsheet; cache keys are scoped by it.
	Handle() string
	ListWorksheets(ctx context.Context) ([]string, error)
	// ReadTable returns the worksheet's header row and data rows. A missing
	// worksheet fails with ErrNotFound.
	ReadTable(ctx context.Context, worksheet string) (*types.Table, error)
	WriteHeaderCell(ctx context.Context, worksheet string, col int, header string) error
	WriteCell(ctx context.Context, worksheet string, cell types.Cell) error
	// WriteCells writes a batch of cells. Cells within a batch carry no
	// ordering guarantee relative to each other.
	WriteCells(ctx context.Context, worksheet string, cells []types.Cell) error
	// ReplaceWorksheet creates the worksheet when missing, clears it
	// otherwise, and writes the table from A1.
	ReplaceWorksheet(ctx context.Context, worksheet string, table *types.Table) error
}
