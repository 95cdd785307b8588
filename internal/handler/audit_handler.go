package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supportpilot/internal/repository"
	"supportpilot/pkg/outbox"
)

const defaultListLimit = 50

type AuditHandler struct {
	unhandled *repository.UnhandledRepository
	attempts  *repository.RefundAttemptRepository
	outbox    *outbox.Repository
	logger    *zap.Logger
}

func NewAuditHandler(
	unhandled *repository.UnhandledRepository,
	attempts *repository.RefundAttemptRepository,
	ob *outbox.Repository,
	logger *zap.Logger,
) *AuditHandler {
	return &AuditHandler{unhandled: unhandled, attempts: attempts, outbox: ob, logger: logger}
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("limit", strconv.Itoa(defaultListLimit))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return limit, true
}

func (h *AuditHandler) ListUnhandled(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	records, err := h.unhandled.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("ListUnhandled: failed to fetch records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *AuditHandler) ListRefundAttempts(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	attempts, err := h.attempts.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("ListRefundAttempts: failed to fetch attempts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attempts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// CountRefundAttempts reports how many times a sender has tried a
// specific unmatched reference, for repeat-offender review.
func (h *AuditHandler) CountRefundAttempts(c *gin.Context) {
	sender := c.Query("sender")
	ref := c.Query("ref")
	if sender == "" || ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sender and ref required"})
		return
	}

	count, err := h.attempts.CountAttempts(c.Request.Context(), sender, ref)
	if err != nil {
		h.logger.Error("CountRefundAttempts: failed to count attempts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count attempts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sender": sender, "ref": ref, "attempts": count})
}

// ListOutboxFailures returns events that exhausted their dispatch
// retries and are parked for manual inspection.
func (h *AuditHandler) ListOutboxFailures(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	events, err := h.outbox.GetFailedEvents(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("ListOutboxFailures: failed to fetch events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
