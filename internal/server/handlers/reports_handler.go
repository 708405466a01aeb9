package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/service/reporting"
)

// ReportsHandler runs the reporting engines over the live snapshot with
// request-scoped selections.
type ReportsHandler struct {
	live   SnapshotSource
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewReportsHandler constructs the reports HTTP adapter. Default month and
// year selections follow the clock in loc.
func NewReportsHandler(live SnapshotSource, loc *time.Location, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandler{live: live, loc: loc, now: time.Now, logger: logger}
}

// Monthly serves GET /reports/monthly?month=YYYY-MM.
func (h *ReportsHandler) Monthly(c *gin.Context) {
	month := models.YearMonthOf(h.now().In(h.loc))
	selected, ok := monthQuery(c)
	if !ok {
		return
	}
	if selected != nil {
		month = *selected
	}

	c.JSON(http.StatusOK, reporting.MonthlyView(h.live.Snapshot(), month))
}

// Yearly serves GET /reports/yearly?year=YYYY.
func (h *ReportsHandler) Yearly(c *gin.Context) {
	year := h.now().In(h.loc).Year()
	selected, ok := yearQuery(c)
	if !ok {
		return
	}
	if selected != nil {
		year = *selected
	}

	c.JSON(http.StatusOK, reporting.YearlyView(h.live.Snapshot(), year))
}

// Unpaid serves the outstanding balance.
func (h *ReportsHandler) Unpaid(c *gin.Context) {
	c.JSON(http.StatusOK, reporting.Unpaid(h.live.Snapshot()))
}

// Trend serves the month by month series.
func (h *ReportsHandler) Trend(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"points": reporting.MonthlyTrend(h.live.Snapshot())})
}

// monthQuery reads ?month=YYYY-MM. It answers 400 and reports false when the
// value is malformed; an absent value yields nil.
func monthQuery(c *gin.Context) (*models.YearMonth, bool) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return nil, true
	}
	month, err := models.ParseYearMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return nil, false
	}
	return &month, true
}

// yearQuery reads ?year=YYYY with the same contract as monthQuery.
func yearQuery(c *gin.Context) (*int, bool) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return nil, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be YYYY"})
		return nil, false
	}
	return &year, true
}
