package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/live"
	"github.com/mamadbah2/freightledger/internal/service/reporting"
)

// onceWatcher delivers a single set of default views and ends the stream.
type onceWatcher struct{ records []models.Record }

func (w onceWatcher) Watch(context.Context) <-chan live.Views {
	filter := models.DefaultFilter()
	ch := make(chan live.Views, 1)
	ch <- live.Views{
		Records: w.records,
		Filter:  filter,
		List:    reporting.ApplyFilter(w.records, filter),
		Monthly: reporting.MonthlyView(w.records, models.YearMonth{Year: 2025, Month: time.April}),
		Yearly:  reporting.YearlyView(w.records, 2026),
		Unpaid:  reporting.Unpaid(w.records),
		Version: 1,
	}
	close(ch)
	return ch
}

func streamOnce(t *testing.T, query string) live.Views {
	t.Helper()
	r := gin.New()
	r.GET("/stream", NewStreamHandler(onceWatcher{records: marchSnapshot()}, nil).Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/stream" + query)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var data string
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimPrefix(line, "data:")
		}
	}
	require.NotEmpty(t, data, "no views event in %q", body)

	var views live.Views
	require.NoError(t, json.Unmarshal([]byte(data), &views))
	return views
}

func TestStreamDefaultViews(t *testing.T) {
	views := streamOnce(t, "")

	assert.Equal(t, models.DefaultFilter(), views.Filter)
	require.Len(t, views.List, 1)
	assert.Equal(t, "a", views.List[0].ID)
	assert.Zero(t, views.Monthly.Totals.Count)
	assert.Equal(t, 2026, views.Yearly.Year)
}

func TestStreamPerConnectionSelection(t *testing.T) {
	views := streamOnce(t, "?paidStatus=all&sortOrder=desc&month=2025-03&year=2025")

	assert.Equal(t, models.PaidStatusAll, views.Filter.PaidStatus)
	require.Len(t, views.List, 2)
	assert.Equal(t, "b", views.List[0].ID)
	assert.Equal(t, models.MonthlyTotals{Count: 2, SupplySum: 150000, QtySum: 70, AvgUnitFare: 2143}, views.Monthly.Totals)
	assert.Equal(t, 2025, views.Yearly.Year)
	assert.Equal(t, 2, views.Yearly.Totals.Count)
	assert.Equal(t, models.UnpaidSummary{Count: 1, TotalAmount: 110000}, views.Unpaid)
}

func TestStreamRejectsBadSelection(t *testing.T) {
	h := NewStreamHandler(onceWatcher{}, nil)
	for _, query := range []string{"?month=March", "?year=twenty"} {
		t.Run(query, func(t *testing.T) {
			r := gin.New()
			r.GET("/stream", h.Stream)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream"+query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
