package common

import (
	"context"
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 WithErr 產生的錯誤仍可被 errors.Is 辨識
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithErr 附上原始錯誤，回傳新的錯誤實例
func (e *CustomError) WithErr(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ToErrorResponse 將任意錯誤轉為 HTTP 狀態碼與響應內容
func ToErrorResponse(err error) (int, ErrorResponse) {
	if IsValidationError(err) {
		return http.StatusBadRequest, ErrorResponse{
			Code:    ErrCodeInvalidRequest,
			Message: ErrInvalidRequest.Message,
			Details: err.Error(),
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorResponse{
			Code:    ErrCodeGatewayTimeout,
			Message: ErrGatewayTimeout.Message,
		}
	}

	var ce *CustomError
	if errors.As(err, &ce) {
		resp := ErrorResponse{Code: ce.Code, Message: ce.Message}
		if ce.Err != nil {
			resp.Details = ce.Err.Error()
		}
		return ce.Status, resp
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    ErrCodeInternalError,
		Message: ErrInternalError.Message,
	}
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusRequestTimeout, nil)
	ErrConflict        = NewError(ErrCodeConflict, "resource already exists", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrCacheFull        = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
	ErrStoreUnavailable = NewError("STORE_UNAVAILABLE", "store unavailable", http.StatusServiceUnavailable, nil)
)
