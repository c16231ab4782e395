package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"contract_expiry_notifier/internal/domain/contract"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Reader reads contract rows from a Google Sheets spreadsheet.
type Reader struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *logrus.Logger
}

// NewReader authenticates with a service account that has read access to the
// spreadsheet.
func NewReader(ctx context.Context, credentialsJSON []byte, spreadsheetID string, logger *logrus.Logger) (*Reader, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to parse credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}
	return NewReaderWithService(svc, spreadsheetID, logger), nil
}

func NewReaderWithService(svc *sheets.Service, spreadsheetID string, logger *logrus.Logger) *Reader {
	return &Reader{service: svc, spreadsheetID: spreadsheetID, logger: logger}
}

// ReadRows fetches the block with unformatted values, so dates arrive as
// serial numbers and do not depend on the sheet's display format.
func (r *Reader) ReadRows(ctx context.Context, block contract.Block) ([]contract.Row, error) {
	if err := block.Validate(); err != nil {
		return nil, err
	}
	rng, err := A1Range(block)
	if err != nil {
		return nil, contract.NewMissingDataError(block, fmt.Errorf("%w: %v", contract.ErrBlockOutOfRange, err))
	}

	r.logger.Debugf("Reading range %s from spreadsheet %s", rng, r.spreadsheetID)
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, rng).
		MajorDimension("ROWS").
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, contract.NewMissingDataError(block, classify(err))
	}
	return contract.Normalize(block, resp.Values), nil
}

// A1Range renders the block in A1 notation, e.g. 'dash'!X3:BL6.
func A1Range(block contract.Block) (string, error) {
	start, err := excelize.CoordinatesToCellName(block.StartColumn, block.StartRow)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(block.EndColumn(), block.EndRow())
	if err != nil {
		return "", err
	}
	sheet := strings.ReplaceAll(block.SheetName, "'", "''")
	return fmt.Sprintf("'%s'!%s:%s", sheet, start, end), nil
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "exceeds grid limits"):
		return fmt.Errorf("%w: %s", contract.ErrBlockOutOfRange, apiErr.Message)
	case apiErr.Code == http.StatusBadRequest, apiErr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", contract.ErrSheetNotFound, apiErr.Message)
	default:
		return err
	}
}
