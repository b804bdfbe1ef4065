package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petchef/internal/core/cache"
	"petchef/internal/infrastructure/config"
	"petchef/internal/infrastructure/store"
	"petchef/internal/pkg/common"
)

// readyTimeout 就緒檢查時 ping 儲存層的期限
const readyTimeout = 2 * time.Second

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Store     string                 `json:"store"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// Handler 健康檢查處理程序
type Handler struct {
	cfg   *config.Config
	store store.Store
	cache cache.Store
}

// NewHandler 創建健康檢查處理程序，cache 可為 nil
func NewHandler(cfg *config.Config, st store.Store, cs cache.Store) *Handler {
	return &Handler{cfg: cfg, store: st, cache: cs}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Store:     h.cfg.Store.Driver,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，儲存層無法連線時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
