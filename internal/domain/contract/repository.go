package contract

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrBlockOutOfRange = errors.New("block out of range")
)

// Block names a contiguous rectangle of a sheet. Rows and columns are 1-based,
// following spreadsheet convention.
type Block struct {
	SheetName   string
	StartRow    int
	NumRows     int
	StartColumn int
	NumColumns  int
}

// DefaultBlock is the range the expiry scan has always read: dash!X3:BL6.
var DefaultBlock = Block{
	SheetName:   "dash",
	StartRow:    3,
	NumRows:     4,
	StartColumn: 24,
	NumColumns:  41,
}

// EndRow is the last row (inclusive) covered by the block.
func (b Block) EndRow() int { return b.StartRow + b.NumRows - 1 }

// EndColumn is the last column (inclusive) covered by the block.
func (b Block) EndColumn() int { return b.StartColumn + b.NumColumns - 1 }

// RowNumber converts an index into the block's result to a sheet row number.
func (b Block) RowNumber(i int) int { return b.StartRow + i }

// Validate reports a MissingDataError for blocks no source could satisfy.
func (b Block) Validate() error {
	switch {
	case b.SheetName == "":
		return &MissingDataError{Block: b, Err: ErrSheetNotFound}
	case b.StartRow < 1, b.StartColumn < 1, b.NumRows < 1, b.NumColumns < 1:
		return &MissingDataError{Block: b, Err: ErrBlockOutOfRange}
	}
	return nil
}

func (b Block) String() string {
	return fmt.Sprintf("%s[r%d c%d, %dx%d]", b.SheetName, b.StartRow, b.StartColumn, b.NumRows, b.NumColumns)
}

// TableReader reads a block of rows from a named sheet. Implementations return
// exactly NumRows rows of exactly NumColumns cells, padding with nil, and wrap
// source-level failures in a *MissingDataError.
type TableReader interface {
	ReadRows(ctx context.Context, block Block) ([]Row, error)
}

// MissingDataError means the table could not be read at all. It aborts the run.
type MissingDataError struct {
	Block Block
	Err   error
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Block, e.Err)
}

func (e *MissingDataError) Unwrap() error { return e.Err }

// NewMissingDataError wraps err unless it already is a MissingDataError.
func NewMissingDataError(block Block, err error) error {
	var mde *MissingDataError
	if errors.As(err, &mde) {
		return err
	}
	return &MissingDataError{Block: block, Err: err}
}

// Normalize pads or trims raw source rows to the block's exact shape.
func Normalize(block Block, raw [][]any) []Row {
	rows := make([]Row, block.NumRows)
	for i := range rows {
		row := make(Row, block.NumColumns)
		if i < len(raw) {
			copy(row, raw[i])
		}
		rows[i] = row
	}
	return rows
}
