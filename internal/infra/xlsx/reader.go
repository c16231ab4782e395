package xlsx

import (
	"context"
	"fmt"

	"contract_expiry_notifier/internal/domain/contract"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Reader reads contract rows from a local .xlsx workbook. The file is opened
// on every call so each scan sees the current contents.
type Reader struct {
	path   string
	logger *logrus.Logger
}

func NewReader(path string, logger *logrus.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

func (r *Reader) ReadRows(ctx context.Context, block contract.Block) ([]contract.Row, error) {
	if err := block.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, contract.NewMissingDataError(block, fmt.Errorf("failed to open workbook %s: %w", r.path, err))
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	idx, err := f.GetSheetIndex(block.SheetName)
	if err != nil || idx == -1 {
		return nil, contract.NewMissingDataError(block, fmt.Errorf("%w: %q in %s", contract.ErrSheetNotFound, block.SheetName, r.path))
	}

	raw := make([][]any, block.NumRows)
	for i := range raw {
		row := make([]any, block.NumColumns)
		for j := range row {
			cell, err := excelize.CoordinatesToCellName(block.StartColumn+j, block.StartRow+i)
			if err != nil {
				return nil, contract.NewMissingDataError(block, fmt.Errorf("%w: %v", contract.ErrBlockOutOfRange, err))
			}
			// Raw values keep dates as serial numbers regardless of the cell format.
			v, err := f.GetCellValue(block.SheetName, cell, excelize.Options{RawCellValue: true})
			if err != nil {
				return nil, contract.NewMissingDataError(block, fmt.Errorf("failed to read cell %s: %w", cell, err))
			}
			if v != "" {
				row[j] = v
			}
		}
		raw[i] = row
	}

	r.logger.Debugf("Read %d rows from %s!%d:%d", len(raw), block.SheetName, block.StartRow, block.EndRow())
	return contract.Normalize(block, raw), nil
}
