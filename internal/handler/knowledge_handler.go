package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supportpilot/internal/knowledge"
)

type KnowledgeHandler struct {
	index  *knowledge.Index
	topK   int
	logger *zap.Logger
}

func NewKnowledgeHandler(index *knowledge.Index, topK int, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{index: index, topK: topK, logger: logger}
}

func (h *KnowledgeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}

	topK := h.topK
	if raw := c.Query("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid top_k"})
			return
		}
		topK = n
	}

	results, err := h.index.Search(c.Request.Context(), query, topK)
	if err != nil {
		h.logger.Error("Search: knowledge query failed",
			zap.String("query", query),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type addDocumentRequest struct {
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required"`
	Topic    string `json:"topic"`
	Priority string `json:"priority"`
}

func (h *KnowledgeHandler) AddDocument(c *gin.Context) {
	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content and category required"})
		return
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}

	docID, err := h.index.AddDocument(c.Request.Context(), req.Content, req.Category, req.Topic, req.Priority)
	if err != nil {
		h.logger.Error("AddDocument: failed to index document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add document"})
		return
	}

	h.logger.Info("AddDocument: success",
		zap.String("doc_id", docID),
		zap.String("category", req.Category),
	)
	c.JSON(http.StatusCreated, gin.H{"doc_id": docID})
}

func (h *KnowledgeHandler) Stats(c *gin.Context) {
	total, err := h.index.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Stats: failed to count documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stats"})
		return
	}

	byCategory, err := h.index.StatsByCategory(c.Request.Context())
	if err != nil {
		h.logger.Error("Stats: failed to tally categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":       total,
		"by_category": byCategory,
	})
}
