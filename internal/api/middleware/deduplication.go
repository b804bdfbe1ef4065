package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petchef/internal/core/cache"
	"petchef/internal/pkg/common"
)

// DefaultDedupWindow 未設定時的去重時間窗
const DefaultDedupWindow = time.Second

// Deduplication POST 請求去重中間件
// 相同路徑與相同內容的 POST 在 window 內只放行第一次；store 為 nil 時不做任何事。
// 非 2xx 的 POST 會釋放 key；成功的 PUT/DELETE 會開始新的世代，讓刪除後可以重新建立。
// 世代只存在於本行程。
func Deduplication(store cache.Store, window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	var generation atomic.Uint64

	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodPost:
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			c.Next()
			if isSuccess(c.Writer.Status()) {
				generation.Add(1)
			}
			return
		default:
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrorResponse{
					Code:    common.ErrCodeInvalidRequest,
					Message: "request body too large",
				})
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		fingerprint := "dedup:" + strconv.FormatUint(generation.Load(), 10) + ":" + c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		first, err := store.SetNX(c.Request.Context(), fingerprint, time.Now().UTC().Format(time.RFC3339Nano), window)
		if err != nil {
			// 快取故障時放行
			common.LogWarn("Deduplication check failed", zap.Error(err))
			c.Next()
			return
		}
		if !first {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "duplicate request",
			})
			return
		}

		c.Next()

		if !isSuccess(c.Writer.Status()) {
			// 請求沒有生效，允許重送
			if err := store.Delete(context.WithoutCancel(c.Request.Context()), fingerprint); err != nil {
				common.LogWarn("Failed to release dedup key", zap.Error(err))
			}
		}
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
