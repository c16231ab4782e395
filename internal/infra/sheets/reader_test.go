package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contract_expiry_notifier/internal/domain/contract"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func TestA1Range(t *testing.T) {
	tests := []struct {
		name  string
		block contract.Block
		want  string
	}{
		{name: "Default block", block: contract.DefaultBlock, want: "'dash'!X3:BL6"},
		{name: "Single cell", block: contract.Block{SheetName: "S", StartRow: 1, NumRows: 1, StartColumn: 1, NumColumns: 1}, want: "'S'!A1:A1"},
		{name: "Quoted sheet", block: contract.Block{SheetName: "Bob's", StartRow: 2, NumRows: 2, StartColumn: 26, NumColumns: 2}, want: "'Bob''s'!Z2:AA3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := A1Range(tt.block)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestReader(t *testing.T, handler http.HandlerFunc) *Reader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	return NewReaderWithService(svc, "sheet-id", logger)
}

func TestReadRows(t *testing.T) {
	var gotPath, gotRender, gotDates string
	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRender = r.URL.Query().Get("valueRenderOption")
		gotDates = r.URL.Query().Get("dateTimeRenderOption")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"range": "dash!X3:BL6",
			"majorDimension": "ROWS",
			"values": [
				["123 Main St", "", "", "", "", "", "", "", "", "", "", "Active", "", 45319],
				[],
				["9 Side Rd"]
			]
		}`)
	})

	rows, err := reader.ReadRows(context.Background(), contract.DefaultBlock)

	require.NoError(t, err)
	assert.Contains(t, gotPath, "/spreadsheets/sheet-id/values/")
	assert.True(t, strings.HasSuffix(gotPath, "X3:BL6"), gotPath)
	assert.Equal(t, "UNFORMATTED_VALUE", gotRender)
	assert.Equal(t, "SERIAL_NUMBER", gotDates)

	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Len(t, r, 41)
	}
	assert.Equal(t, "123 Main St", contract.DefaultLayout.Address(rows[0]))
	assert.Equal(t, "Active", contract.DefaultLayout.Status(rows[0]))
	assert.Equal(t, float64(45319), contract.DefaultLayout.Expiry(rows[0]))
	assert.Equal(t, "9 Side Rd", contract.DefaultLayout.Address(rows[2]))
	assert.Nil(t, contract.DefaultLayout.Expiry(rows[3]))
}

func TestReadRowsMissingSheet(t *testing.T) {
	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"code": 400, "message": "Unable to parse range: 'dash'!X3:BL6", "status": "INVALID_ARGUMENT"}}`)
	})

	_, err := reader.ReadRows(context.Background(), contract.DefaultBlock)

	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrSheetNotFound)
	var mde *contract.MissingDataError
	assert.True(t, errors.As(err, &mde))
}

func TestReadRowsOutsideGrid(t *testing.T) {
	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"code": 400, "message": "Range ('dash'!X3:BL6) exceeds grid limits. Max rows: 2, max columns: 26", "status": "INVALID_ARGUMENT"}}`)
	})

	_, err := reader.ReadRows(context.Background(), contract.DefaultBlock)

	assert.ErrorIs(t, err, contract.ErrBlockOutOfRange)
}

func TestReadRowsInvalidBlock(t *testing.T) {
	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an invalid block")
	})

	_, err := reader.ReadRows(context.Background(), contract.Block{SheetName: "dash"})

	assert.ErrorIs(t, err, contract.ErrBlockOutOfRange)
}

func TestNewReaderRejectsBadCredentials(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := NewReader(context.Background(), []byte("not json"), "sheet-id", logger)

	assert.Error(t, err)
}
