package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	return v, nil
}

func TestCaloriesCmd(t *testing.T) {
	out, err := run(t, "calories", "--species", "dog", "--weight", "9.5", "--activity", "normal")
	require.NoError(t, err)
	assert.Equal(t, 284.0, out["kcalPerMeal"])

	_, err = run(t, "calories", "--weight", "0")
	assert.ErrorContains(t, err, "--weight")
}

func TestRankCmd_DefaultCatalog(t *testing.T) {
	out, err := run(t, "rank", "--variant", "pet")
	require.NoError(t, err)
	assert.Equal(t, "pet", out["variant"])

	suggestions := out["suggestions"].([]interface{})
	require.Len(t, suggestions, 1)
	first := suggestions[0].(map[string]interface{})
	assert.Equal(t, "rec-chicken-bowl-pet", first["recipe"].(map[string]interface{})["id"])
}

func TestRankCmd_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	catalog := `
inventory:
  - id: a
    name: Carrot
    quantity: 3
    unit: pcs
    expiresInDays: 1
recipes:
  - id: r-soup
    title: Carrot Soup
    variant: human
    ingredients:
      - { name: carrot, qty: 2, unit: pcs }
    steps: [Boil]
  - id: r-garlic
    title: Garlic Bread
    variant: human
    ingredients:
      - { name: Garlic, qty: 1, unit: pcs }
    steps: [Bake]
`
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))

	out, err := run(t, "rank", "--catalog", path, "--limit", "1")
	require.NoError(t, err)
	suggestions := out["suggestions"].([]interface{})
	require.Len(t, suggestions, 1)
	first := suggestions[0].(map[string]interface{})
	// carrot +2 +2(近期到期)
	assert.Equal(t, 4.0, first["score"])
}

func TestDuoCmd(t *testing.T) {
	out, err := run(t, "duo", "--pet", "pet-momo")
	require.NoError(t, err)
	pairs := out["pairs"].([]interface{})
	require.Len(t, pairs, 1)
	assert.Equal(t, "rec-chicken-bowl-base", pairs[0].(map[string]interface{})["baseRecipeId"])

	_, err = run(t, "duo", "--pet", "ghost")
	assert.Error(t, err)
}

func TestRemoteCalories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pets/pet-momo/calories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"petId":"pet-momo","kcalPerMeal":284}`))
	}))
	defer srv.Close()

	out, err := run(t, "remote", "calories", "--server", srv.URL, "--pet", "pet-momo", "--timeout", (2 * time.Second).String())
	require.NoError(t, err)
	assert.Equal(t, "pet-momo", out["petId"])

	_, err = run(t, "remote", "calories", "--server", srv.URL)
	assert.ErrorContains(t, err, "--pet is required")
}
