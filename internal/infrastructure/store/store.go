// Package store 庫存、食譜與寵物的儲存層實作
package store

import (
	"context"
	"fmt"

	"petchef/internal/infrastructure/config"
	"petchef/internal/pkg/common"
)

// InventoryStore 庫存儲存介面
type InventoryStore interface {
	ListInventory(ctx context.Context) ([]common.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id string) (common.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item common.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, item common.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id string) error
}

// RecipeStore 食譜儲存介面
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]common.Recipe, error)
	GetRecipe(ctx context.Context, id string) (common.Recipe, error)
	CreateRecipe(ctx context.Context, recipe common.Recipe) error
}

// PetStore 寵物儲存介面
type PetStore interface {
	ListPets(ctx context.Context) ([]common.PetProfile, error)
	GetPet(ctx context.Context, id string) (common.PetProfile, error)
	CreatePet(ctx context.Context, pet common.PetProfile) error
}

// Store 聚合所有儲存介面
// List 類方法依建立順序回傳，評分時同名庫存以最後一筆為準
type Store interface {
	InventoryStore
	RecipeStore
	PetStore
	Ping(ctx context.Context) error
	Close() error
}

// New 依設定建立儲存實作
func New(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return openSQL(DialectSQLite, cfg.DSN)
	case "postgres":
		return openSQL(DialectPostgres, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// openSQL 避免錯誤時回傳包著 nil 指標的介面
func openSQL(d Dialect, dsn string) (Store, error) {
	st, err := OpenSQL(d, dsn)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func notFound(kind, id string) error {
	return common.ErrNotFound.WithErr(fmt.Errorf("%s %q not found", kind, id))
}

func conflict(kind, id string) error {
	return common.ErrConflict.WithErr(fmt.Errorf("%s %q already exists", kind, id))
}
