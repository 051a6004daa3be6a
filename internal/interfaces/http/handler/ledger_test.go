package handler

import (
	"bytes"
	"net/http"
	"testing"

	appinventory "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/infrastructure/export"
	"github.com/bottling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLedgerHandler_List(t *testing.T) {
	api := newTestAPI(t)
	api.produce(t, "350ml", 48)
	w := api.do(http.MethodPost, "/api/v1/sales-orders", gin.H{
		"order_number": "SO-9",
		"products":     []gin.H{{"product": "350ml", "quantity": 1}},
	}, "X-Employee-ID", "seller")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/ledger-events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []appinventory.LedgerEventResponse
	resp := decode(t, w, &events)
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 50, resp.Meta.PageSize)

	// newest first
	assert.Equal(t, "Sales Order", events[0].Module)
	assert.Equal(t, "decrease", events[0].Movement)
	assert.Equal(t, int64(24), events[0].Quantity)
	assert.Equal(t, int64(24), events[0].BalanceAfter)
	assert.Equal(t, "seller", events[0].EmployeeID)
	assert.Equal(t, "Production Output", events[1].Module)
	assert.Equal(t, "UNKNOWN", events[1].EmployeeID)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"by module", "?module=Sales%20Order", 1},
		{"by employee", "?employee_id=seller", 1},
		{"by reference", "?reference=SO-9", 1},
		{"by type", "?type=Raw%20Materials", 0},
		{"by date range", "?from=2000-01-01&to=2999-01-01", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodGet, "/api/v1/ledger-events"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var got []appinventory.LedgerEventResponse
			decode(t, w, &got)
			assert.Len(t, got, tt.want)
		})
	}

	requireError(t, api.do(http.MethodGet, "/api/v1/ledger-events?type=Gadgets", nil),
		http.StatusBadRequest, dto.ErrCodeValidation)
}

func TestLedgerHandler_Export(t *testing.T) {
	api := newTestAPI(t)
	api.produce(t, "1L", 12)
	api.produce(t, "6L", 2)

	w := api.do(http.MethodGet, "/api/v1/ledger-events/export?module=Production%20Output", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "activity-log-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Activity Log")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Processed At", rows[0][0])
}
