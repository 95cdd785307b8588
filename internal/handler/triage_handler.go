package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mqcontracts "supportpilot/contracts/mq"
	"supportpilot/internal/repository"
	"supportpilot/internal/triage"
	"supportpilot/pkg/mq"
)

type TriageHandler struct {
	poller    *triage.Poller
	processed *repository.ProcessedRepository
	publisher *mq.Publisher
	logger    *zap.Logger
}

func NewTriageHandler(
	poller *triage.Poller,
	processed *repository.ProcessedRepository,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *TriageHandler {
	return &TriageHandler{poller: poller, processed: processed, publisher: publisher, logger: logger}
}

func (h *TriageHandler) Start(c *gin.Context) {
	h.poller.Start()
	h.publishControl(c, true)
	c.JSON(http.StatusOK, gin.H{"running": true})
}

func (h *TriageHandler) Stop(c *gin.Context) {
	h.poller.Stop()
	h.publishControl(c, false)
	c.JSON(http.StatusOK, gin.H{"running": false})
}

func (h *TriageHandler) Status(c *gin.Context) {
	processed, err := h.processed.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Status: failed to count processed messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"running":         h.poller.Running(),
		"processed_total": processed,
	})
}

// publishControl announces the toggle best-effort. Control events carry
// no state, so losing one only costs observability.
func (h *TriageHandler) publishControl(c *gin.Context, running bool) {
	err := h.publisher.Publish(mqcontracts.RoutingKeyControl, mqcontracts.ControlPayload{
		Running:   running,
		Operator:  c.GetString("subject"),
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Warn("Failed to publish triage control event",
			zap.Bool("running", running),
			zap.Error(err),
		)
	}
}
