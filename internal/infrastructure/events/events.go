// Package events 發佈庫存、食譜與寵物的異動事件
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type 事件類型
type Type string

const (
	InventoryCreated Type = "inventory.created"
	InventoryUpdated Type = "inventory.updated"
	InventoryDeleted Type = "inventory.deleted"
	RecipeCreated    Type = "recipe.created"
	PetCreated       Type = "pet.created"
)

// Event 領域事件
type Event struct {
	Type       Type            `json:"type"`
	EntityID   string          `json:"entityId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// New 建立事件，payload 為 nil 時省略
func New(t Type, entityID string, occurredAt time.Time, payload interface{}) (Event, error) {
	ev := Event{Type: t, EntityID: entityID, OccurredAt: occurredAt.UTC()}
	if payload == nil {
		return ev, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ev, err
	}
	ev.Payload = data
	return ev, nil
}

// Publisher 事件發佈介面
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NoopPublisher 不做任何事，events.enabled 為 false 時使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, ev Event) error { return nil }
func (NoopPublisher) Close() error { return nil }
