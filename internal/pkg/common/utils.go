package common

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteErrorResponse 寫入錯誤響應
func WriteErrorResponse(w http.ResponseWriter, err error) {
	status, body := ToErrorResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
