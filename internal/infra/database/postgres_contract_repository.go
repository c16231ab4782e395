package database

import (
	"context"
	"database/sql"
	"fmt"

	"contract_expiry_notifier/internal/domain/contract"

	"github.com/lib/pq"
)

// PostgresContractRepository reads contract rows from a spreadsheet mirror
// stored in the sheet_rows table (see migrations/001_sheet_rows.up.sql).
type PostgresContractRepository struct {
	db *sql.DB
}

func NewPostgresContractRepository(db *sql.DB) *PostgresContractRepository {
	return &PostgresContractRepository{db: db}
}

func (r *PostgresContractRepository) ReadRows(ctx context.Context, block contract.Block) ([]contract.Row, error) {
	if err := block.Validate(); err != nil {
		return nil, err
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sheet_rows WHERE sheet_name = $1)`, block.SheetName).Scan(&exists)
	if err != nil {
		return nil, contract.NewMissingDataError(block, fmt.Errorf("error checking sheet: %w", err))
	}
	if !exists {
		return nil, contract.NewMissingDataError(block, contract.ErrSheetNotFound)
	}

	// Postgres array slices are 1-based and inclusive, like sheet columns.
	query := `SELECT row_num, cells[$2:$3]
               FROM sheet_rows
               WHERE sheet_name = $1 AND row_num BETWEEN $4 AND $5
               ORDER BY row_num`
	rows, err := r.db.QueryContext(ctx, query, block.SheetName, block.StartColumn, block.EndColumn(), block.StartRow, block.EndRow())
	if err != nil {
		return nil, contract.NewMissingDataError(block, fmt.Errorf("error querying sheet rows: %w", err))
	}
	defer rows.Close()

	raw := make([][]any, block.NumRows)
	for rows.Next() {
		var rowNum int
		var cells []sql.NullString
		if err := rows.Scan(&rowNum, pq.Array(&cells)); err != nil {
			return nil, contract.NewMissingDataError(block, fmt.Errorf("error scanning sheet row: %w", err))
		}
		raw[rowNum-block.StartRow] = toCells(cells)
	}
	if err := rows.Err(); err != nil {
		return nil, contract.NewMissingDataError(block, fmt.Errorf("error iterating sheet rows: %w", err))
	}

	return contract.Normalize(block, raw), nil
}

func toCells(cells []sql.NullString) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c.Valid && c.String != "" {
			out[i] = c.String
		}
	}
	return out
}
