package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository"
	"github.com/mamadbah2/freightledger/internal/service/notify"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticSnapshot []models.Record

func (s staticSnapshot) Snapshot() []models.Record { return s }

func marchSnapshot() staticSnapshot {
	return staticSnapshot{
		models.Record{ID: "a", RecordFields: models.RecordFields{
			ShipDate: models.DatePtr(2025, time.March, 5), SupplyAmount: 100000, Qty: 50,
		}}.Normalize(),
		models.Record{ID: "b", RecordFields: models.RecordFields{
			ShipDate: models.DatePtr(2025, time.March, 20), SupplyAmount: 50000, Qty: 20,
			PaidDate: models.DatePtr(2025, time.March, 25),
		}}.Normalize(),
	}
}

func TestAmountFieldUnmarshal(t *testing.T) {
	tests := []struct {
		body    string
		want    *int64
		wantErr bool
	}{
		{body: `100000`, want: ptr(100000)},
		{body: `"100,000"`, want: ptr(100000)},
		{body: `"70"`, want: ptr(70)},
		{body: `null`, want: nil},
		{body: `""`, want: nil},
		{body: `12.5`, wantErr: true},
		{body: `"twelve"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var a amountField
			err := json.Unmarshal([]byte(tt.body), &a)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.value)
		})
	}
}

func TestRecordRequestMissingAmountIsAbsent(t *testing.T) {
	var req recordRequest
	require.NoError(t, json.Unmarshal([]byte(`{"shipDate":"2025-03-05","supplyAmount":"100,000"}`), &req))

	in, err := req.toInput()
	require.NoError(t, err)
	assert.Equal(t, int64(100000), *in.SupplyAmount)
	assert.Nil(t, in.Qty)
	assert.Equal(t, models.DatePtr(2025, time.March, 5), in.ShipDate)
}

func TestRecordRequestBadDate(t *testing.T) {
	_, err := recordRequest{PaidDate: "25/03/2025"}.toInput()

	var fieldErr *models.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "paidDate", fieldErr.Field)
}

func TestWriteErrorStatuses(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&models.FieldError{Field: "qty", Reason: "is required"}, http.StatusBadRequest},
		{fmt.Errorf("parse: %w", models.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("update record x: %w", repository.ErrNotFound), http.StatusNotFound},
		{errors.New("server selection timeout"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			writeError(c, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func serve(handler gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", handler)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestReportsMonthlyDefaultsToCurrentMonth(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	h := NewReportsHandler(marchSnapshot(), seoul, nil)
	// Still February in UTC, already March in Seoul.
	h.now = func() time.Time { return time.Date(2025, time.February, 28, 20, 0, 0, 0, time.UTC) }

	rec := serve(h.Monthly, "/x")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.MonthlyReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, models.YearMonth{Year: 2025, Month: time.March}, report.Month)
	assert.Equal(t, models.MonthlyTotals{Count: 2, SupplySum: 150000, QtySum: 70, AvgUnitFare: 2143}, report.Totals)
}

func TestReportsRejectBadSelectors(t *testing.T) {
	h := NewReportsHandler(marchSnapshot(), nil, nil)

	assert.Equal(t, http.StatusBadRequest, serve(h.Monthly, "/x?month=March").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h.Yearly, "/x?year=twenty").Code)
}

func TestReportsYearlyAndUnpaid(t *testing.T) {
	h := NewReportsHandler(marchSnapshot(), nil, nil)

	rec := serve(h.Yearly, "/x?year=2025")
	require.Equal(t, http.StatusOK, rec.Code)
	var yearly models.YearlyReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &yearly))
	assert.Equal(t, 2, yearly.Months[2].Count)
	assert.Equal(t, int64(150000), yearly.Totals.TotalSum)

	rec = serve(h.Unpaid, "/x")
	var unpaid models.UnpaidSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unpaid))
	assert.Equal(t, models.UnpaidSummary{Count: 1, TotalAmount: 110000}, unpaid)
}

func TestRecordsListAppliesQueryFilter(t *testing.T) {
	h := NewRecordsHandler(nil, marchSnapshot(), nil)

	rec := serve(h.List, "/x?paidStatus=paid")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int             `json:"count"`
		Records []models.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "b", body.Records[0].ID)
	assert.True(t, body.Records[0].Paid)
	assert.Equal(t, int64(55000), body.Records[0].Total)
}

type stubNotifier struct{ err error }

func (s stubNotifier) SendOutbound(context.Context, models.OutboundMessage) error { return s.err }
func (s stubNotifier) SendReport(context.Context, string) error                   { return s.err }

func TestNotifySendMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"accepted", `{"to":"8210","message":"hi"}`, nil, http.StatusAccepted},
		{"missing message", `{"to":"8210"}`, nil, http.StatusBadRequest},
		{"disabled", `{"to":"8210","message":"hi"}`, notify.ErrDisabled, http.StatusServiceUnavailable},
		{"upstream failure", `{"to":"8210","message":"hi"}`, errors.New("timeout"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewNotifyHandler(stubNotifier{err: tt.err}, nil)
			r := gin.New()
			r.POST("/notify/send", h.SendMessage)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/notify/send", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func ptr(v int64) *int64 { return &v }
