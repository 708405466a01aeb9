package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository"
	"github.com/mamadbah2/freightledger/internal/service/reporting"
)

// RecordService is the write side used by the HTTP layer.
type RecordService interface {
	Create(ctx context.Context, in models.RecordInput) (models.Record, error)
	Update(ctx context.Context, id string, in models.RecordInput) (models.Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.Record, error)
}

// SnapshotSource exposes the latest live record set.
type SnapshotSource interface {
	Snapshot() []models.Record
}

// RecordsHandler serves record CRUD and the filtered list view.
type RecordsHandler struct {
	svc    RecordService
	live   SnapshotSource
	logger *zap.Logger
}

// NewRecordsHandler constructs the records HTTP adapter.
func NewRecordsHandler(svc RecordService, live SnapshotSource, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, live: live, logger: logger}
}

// List filters and sorts the live snapshot. Query values that cannot be
// parsed fall back to the defaults.
func (h *RecordsHandler) List(c *gin.Context) {
	filter := models.ParseFilter(
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("paidStatus"),
		c.Query("sortOrder"),
	)
	records := reporting.ApplyFilter(h.live.Snapshot(), filter)

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"filter":  filter,
		"records": records,
	})
}

// Get returns one record.
func (h *RecordsHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logFailure("get", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create validates and stores a new record.
func (h *RecordsHandler) Create(c *gin.Context) {
	in, ok := bindRecord(c)
	if !ok {
		return
	}

	record, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.logFailure("create", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Update replaces the fields of an existing record.
func (h *RecordsHandler) Update(c *gin.Context) {
	in, ok := bindRecord(c)
	if !ok {
		return
	}

	record, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.logFailure("update", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete removes a record permanently.
func (h *RecordsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logFailure("delete", err)
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecordsHandler) logFailure(op string, err error) {
	if errors.Is(err, models.ErrValidation) || errors.Is(err, repository.ErrNotFound) {
		h.logger.Debug("record request rejected", zap.String("op", op), zap.Error(err))
		return
	}
	h.logger.Error("record request failed", zap.String("op", op), zap.Error(err))
}
