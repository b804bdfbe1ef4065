package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petchef/internal/infrastructure/config"
	"petchef/internal/pkg/common"
)

// testStores 回傳所有要跑同一組測試的實作
func testStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlStore, err := OpenSQL(DialectSQLite, filepath.Join(t.TempDir(), "petchef.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlStore,
	}
}

func sampleRecipe(id string) common.Recipe {
	return common.Recipe{
		ID:           id,
		Title:        "Chicken Bowl",
		Variant:      common.VariantPet,
		BaseRecipeID: "base-1",
		Ingredients: []common.RecipeIngredient{
			{Name: "Chicken Breast", Qty: 0.3, Unit: "pcs"},
			{Name: "Carrot", Qty: 0.25, Unit: "pcs", Optional: true},
		},
		Steps:     []string{"Boil", "Serve"},
		DietTags:  []string{"low_sodium"},
		PetSafety: &common.PetSafety{SafeFor: []common.Species{common.SpeciesDog}},
	}
}

func TestStore_Inventory(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			items, err := st.ListInventory(ctx)
			require.NoError(t, err)
			assert.Empty(t, items)

			a := common.InventoryItem{ID: "a", Name: "Carrot", Quantity: 4, Unit: "pcs", ExpiresOn: "2026-10-20", Tags: []common.ItemTag{common.TagShared}}
			b := common.InventoryItem{ID: "b", Name: "Onion", Quantity: 1, Unit: "pcs", ExpiresOn: "2026-10-25"}
			require.NoError(t, st.CreateInventoryItem(ctx, a))
			require.NoError(t, st.CreateInventoryItem(ctx, b))

			err = st.CreateInventoryItem(ctx, a)
			assert.ErrorIs(t, err, common.ErrConflict)

			a.Quantity = 1.5
			require.NoError(t, st.UpdateInventoryItem(ctx, a))

			items, err = st.ListInventory(ctx)
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "a", items[0].ID, "update keeps insertion order")
			assert.Equal(t, 1.5, items[0].Quantity)
			assert.Equal(t, []common.ItemTag{common.TagShared}, items[0].Tags)

			got, err := st.GetInventoryItem(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "Onion", got.Name)

			require.NoError(t, st.DeleteInventoryItem(ctx, "a"))
			assert.ErrorIs(t, st.DeleteInventoryItem(ctx, "a"), common.ErrNotFound)
			assert.ErrorIs(t, st.UpdateInventoryItem(ctx, a), common.ErrNotFound)

			_, err = st.GetInventoryItem(ctx, "a")
			assert.ErrorIs(t, err, common.ErrNotFound)
		})
	}
}

func TestStore_Recipes(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, st.CreateRecipe(ctx, sampleRecipe("r1")))
			human := sampleRecipe("r2")
			human.Variant = common.VariantHuman
			human.PetSafety = nil
			require.NoError(t, st.CreateRecipe(ctx, human))
			assert.ErrorIs(t, st.CreateRecipe(ctx, sampleRecipe("r1")), common.ErrConflict)

			recipes, err := st.ListRecipes(ctx)
			require.NoError(t, err)
			require.Len(t, recipes, 2)
			assert.Equal(t, sampleRecipe("r1"), recipes[0])
			assert.Nil(t, recipes[1].PetSafety)

			got, err := st.GetRecipe(ctx, "r2")
			require.NoError(t, err)
			assert.Equal(t, common.VariantHuman, got.Variant)

			_, err = st.GetRecipe(ctx, "missing")
			assert.ErrorIs(t, err, common.ErrNotFound)
		})
	}
}

func TestStore_Pets(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			pet := common.PetProfile{
				ID: "p1", Name: "Momo", Species: common.SpeciesDog, WeightKg: 9.5,
				ActivityLevel: common.ActivityNormal, Allergies: []string{"beef"},
			}
			require.NoError(t, st.CreatePet(ctx, pet))
			assert.ErrorIs(t, st.CreatePet(ctx, pet), common.ErrConflict)

			got, err := st.GetPet(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, pet, got)

			pets, err := st.ListPets(ctx)
			require.NoError(t, err)
			assert.Len(t, pets, 1)

			_, err = st.GetPet(ctx, "nope")
			assert.ErrorIs(t, err, common.ErrNotFound)

			assert.NoError(t, st.Ping(ctx))
		})
	}
}

func TestStore_EmptyRecipeListsEncodeAlike(t *testing.T) {
	encoded := map[string]string{}
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty := common.Recipe{
				ID:          "r-empty",
				Title:       "Nothing",
				Variant:     common.VariantPet,
				Ingredients: []common.RecipeIngredient{},
				Steps:       []string{},
			}
			require.NoError(t, st.CreateRecipe(ctx, empty))
			bare := common.Recipe{ID: "r-bare", Title: "Bare", Variant: common.VariantHuman}
			require.NoError(t, st.CreateRecipe(ctx, bare))

			recipes, err := st.ListRecipes(ctx)
			require.NoError(t, err)
			require.Len(t, recipes, 2)

			b, err := json.Marshal(recipes)
			require.NoError(t, err)
			assert.Contains(t, string(b), `"ingredients":[],"steps":[]`)
			assert.NotContains(t, string(b), "null")
			encoded[name] = string(b)
		})
	}
	assert.Equal(t, encoded["memory"], encoded["sqlite"])
}

func TestStore_ConcurrentCreateSameID(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			pet := common.PetProfile{ID: "p-race", Name: "Momo", Species: common.SpeciesDog, WeightKg: 9.5, ActivityLevel: common.ActivityNormal}

			const n = 8
			errs := make([]error, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = st.CreatePet(ctx, pet)
				}(i)
			}
			wg.Wait()

			created := 0
			for _, err := range errs {
				if err == nil {
					created++
					continue
				}
				assert.ErrorIs(t, err, common.ErrConflict)
			}
			assert.Equal(t, 1, created)
		})
	}
}

func TestIsPostgresUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, isPostgresUniqueViolation(dup))
	assert.True(t, isPostgresUniqueViolation(fmt.Errorf("exec: %w", dup)))
	assert.False(t, isPostgresUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, isPostgresUniqueViolation(errors.New("connection refused")))
}

func TestSQLStore_InsertConflictWithoutPrecheck(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQL(DialectSQLite, filepath.Join(t.TempDir(), "petchef.db"))
	require.NoError(t, err)
	defer st.Close()

	item := common.InventoryItem{ID: "dup", Name: "Rice", Quantity: 1, Unit: "kg", ExpiresOn: "2026-12-01"}
	require.NoError(t, st.CreateInventoryItem(ctx, item))

	err = st.CreateInventoryItem(ctx, item)
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Contains(t, err.Error(), `inventory item "dup" already exists`)

	status, body := common.ToErrorResponse(err)
	assert.Equal(t, 409, status)
	assert.Equal(t, common.ErrCodeConflict, body.Code)
}

func TestMemoryStore_CopiesRecords(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	r := sampleRecipe("r1")
	require.NoError(t, st.CreateRecipe(ctx, r))
	r.Ingredients[0].Name = "Chocolate"

	got, err := st.GetRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Breast", got.Ingredients[0].Name)

	got.Steps[0] = "changed"
	again, err := st.GetRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Boil", again.Steps[0])
}

func TestSQLStore_Rebind(t *testing.T) {
	pg := &SQLStore{dialect: DialectPostgres}
	assert.Equal(t, "UPDATE t SET a = $1 WHERE id = $2", pg.q("UPDATE t SET a = ? WHERE id = ?"))

	lite := &SQLStore{dialect: DialectSQLite}
	assert.Equal(t, "SELECT ? FROM t", lite.q("SELECT ? FROM t"))
}

func TestSQLStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "petchef.db")

	st, err := OpenSQL(DialectSQLite, path)
	require.NoError(t, err)
	require.NoError(t, st.CreateRecipe(ctx, sampleRecipe("r1")))
	require.NoError(t, st.Close())

	st, err = OpenSQL(DialectSQLite, path)
	require.NoError(t, err)
	defer st.Close()

	recipes, err := st.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestNew(t *testing.T) {
	st, err := New(config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, st)

	st, err = New(config.StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	defer st.Close()
	assert.IsType(t, &SQLStore{}, st)

	_, err = New(config.StoreConfig{Driver: "mongo"})
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestSeed(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)
	require.Len(t, seed.Inventory, 4)
	require.Len(t, seed.Pets, 1)
	require.Len(t, seed.Recipes, 2)

	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	items := seed.Items(now)
	assert.Equal(t, "Chicken Breast", items[0].Name)
	assert.Equal(t, "2026-10-21", items[0].ExpiresOn)
	assert.Equal(t, "2027-02-16", items[3].ExpiresOn)

	assert.Equal(t, "rec-chicken-bowl-base", seed.Recipes[0].BaseRecipeID)
	assert.True(t, seed.Recipes[0].Ingredients[2].Optional)
	assert.Equal(t, []common.Species{common.SpeciesDog}, seed.Recipes[1].PetSafety.SafeFor)
	assert.Equal(t, []string{"beef"}, seed.Pets[0].Allergies)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	seed, err := LoadSeed("")
	require.NoError(t, err)

	st := NewMemoryStore()
	require.NoError(t, SeedIfEmpty(ctx, st, seed, now))
	// 第二次不應重複寫入
	require.NoError(t, SeedIfEmpty(ctx, st, seed, now))

	items, err := st.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	recipes, err := st.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestLoadSeed_File(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read seed file")
}
