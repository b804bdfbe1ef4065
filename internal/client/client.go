// Package client 是 PetChef HTTP API 的 Go 客戶端
package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	recipeService "petchef/internal/core/recipe"
	"petchef/internal/pkg/common"
)

// APIError 伺服器回傳的錯誤
type APIError struct {
	Status   int
	Response common.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Details != "" {
		return fmt.Sprintf("petchef: %d %s: %s (%s)", e.Status, e.Response.Code, e.Response.Message, e.Response.Details)
	}
	return fmt.Sprintf("petchef: %d %s: %s", e.Status, e.Response.Code, e.Response.Message)
}

// Client PetChef API 客戶端
type Client struct {
	client *resty.Client
}

// New 創建客戶端，baseURL 例如 http://localhost:8787
func New(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	return &Client{client: client}
}

// SuggestRecipes GET /v1/recipes/suggest
func (c *Client) SuggestRecipes(ctx context.Context, variant common.RecipeVariant, petID string) (*recipeService.SuggestResult, error) {
	var result recipeService.SuggestResult
	req := c.client.R().SetContext(ctx).SetResult(&result)
	if variant != "" {
		req.SetQueryParam("variant", string(variant))
	}
	if petID != "" {
		req.SetQueryParam("petId", petID)
	}

	if err := do(req, "/v1/recipes/suggest"); err != nil {
		return nil, err
	}
	return &result, nil
}

// SuggestDuos GET /v1/duo/suggest
func (c *Client) SuggestDuos(ctx context.Context, petID string) (*recipeService.DuoResult, error) {
	var result recipeService.DuoResult
	req := c.client.R().SetContext(ctx).SetResult(&result)
	if petID != "" {
		req.SetQueryParam("petId", petID)
	}

	if err := do(req, "/v1/duo/suggest"); err != nil {
		return nil, err
	}
	return &result, nil
}

// PetCalories GET /v1/pets/:id/calories
func (c *Client) PetCalories(ctx context.Context, petID string) (*recipeService.CaloriesResult, error) {
	var result recipeService.CaloriesResult
	req := c.client.R().SetContext(ctx).SetResult(&result)

	if err := do(req, "/v1/pets/"+url.PathEscape(petID)+"/calories"); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListInventory GET /v1/inventory
func (c *Client) ListInventory(ctx context.Context) ([]common.InventoryItem, error) {
	var result struct {
		Items []common.InventoryItem `json:"items"`
	}
	req := c.client.R().SetContext(ctx).SetResult(&result)

	if err := do(req, "/v1/inventory"); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// do 送出 GET 請求並把非 2xx 轉為 *APIError
func do(req *resty.Request, path string) error {
	var apiErr common.ErrorResponse
	resp, err := req.SetError(&apiErr).Get(path)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", path, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Response: apiErr}
	}
	return nil
}
