// Package recipe 提供庫存、食譜、寵物與 duo 推薦的應用服務
package recipe

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"petchef/internal/infrastructure/events"
	"petchef/internal/infrastructure/store"
	"petchef/internal/pkg/common"
)

// Service 服務共用的依賴
type Service struct {
	store     store.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewService 創建服務基礎結構，publisher 為 nil 時不發佈事件
func NewService(st store.Store, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		store:     st,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock 替換時間來源
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// publish 發佈事件，失敗只記錄不回傳
func (s *Service) publish(ctx context.Context, t events.Type, entityID string, payload interface{}) {
	ev, err := events.New(t, entityID, s.now(), payload)
	if err != nil {
		common.LogWarn("Failed to build event", zap.String("type", string(t)), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		common.LogWarn("Failed to publish event",
			zap.String("type", string(t)),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// snapshot 同時讀取食譜與庫存，兩者皆為複本
func (s *Service) snapshot(ctx context.Context) ([]common.Recipe, []common.InventoryItem, error) {
	var recipes []common.Recipe
	var inventory []common.InventoryItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recipes, err = s.store.ListRecipes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		inventory, err = s.store.ListInventory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return recipes, inventory, nil
}

// allergiesFor 取得寵物過敏原，petID 為空時不過濾
func (s *Service) allergiesFor(ctx context.Context, petID string) ([]string, error) {
	if petID == "" {
		return nil, nil
	}
	pet, err := s.store.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	return pet.Allergies, nil
}
