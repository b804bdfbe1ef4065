// Package handlers 放置各路由處理器共用的請求與響應工具
package handlers

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petchef/internal/pkg/common"
)

// OKResponse 寫入類操作的響應
type OKResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

// RespondError 記錄錯誤並寫入統一格式的錯誤響應
func RespondError(c *gin.Context, err error) {
	status, _ := common.ToErrorResponse(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= 500 {
		common.LogError("Request failed", fields...)
	} else {
		common.LogDebug("Request rejected", fields...)
	}

	_ = c.Error(err)
	common.WriteErrorResponse(c.Writer, err)
	c.Abort()
}

// BindJSON 解析並驗證 JSON，失敗時已寫入 400
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		RespondError(c, common.NewValidationError(err.Error()))
		return false
	}
	return true
}
