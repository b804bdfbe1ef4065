package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"petchef/internal/pkg/common"
)

// 編譯期檢查介面實作
var _ Store = (*SQLStore)(nil)

// Dialect SQL 方言差異
type Dialect struct {
	Name       string
	driverName string
	seqColumn  string
	realType   string
	rebind     bool // 將 ? 轉為 $n

	uniqueViolation func(error) bool
}

var (
	// DialectSQLite 使用 modernc.org/sqlite（純 Go，不需 cgo）
	DialectSQLite = Dialect{
		Name:       "sqlite",
		driverName: "sqlite",
		seqColumn:  "seq INTEGER PRIMARY KEY AUTOINCREMENT",
		realType:   "REAL",

		uniqueViolation: isSQLiteUniqueViolation,
	}
	// DialectPostgres 使用 pgx 的 database/sql 驅動
	DialectPostgres = Dialect{
		Name:       "postgres",
		driverName: "pgx",
		seqColumn:  "seq BIGSERIAL PRIMARY KEY",
		realType:   "DOUBLE PRECISION",
		rebind:     true,

		uniqueViolation: isPostgresUniqueViolation,
	}
)

// isSQLiteUniqueViolation 判斷是否為 UNIQUE / PRIMARY KEY 衝突
func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// 未開啟延伸錯誤碼時只能看訊息
		return strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}

// isPostgresUniqueViolation 判斷是否為 unique_violation (23505)
func isPostgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SQLStore database/sql 實作，巢狀欄位以 JSON 文字儲存
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL 開啟資料庫並建立資料表
func OpenSQL(dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(dialect.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect.Name == DialectSQLite.Name {
		// sqlite 同時只允許一個寫入者
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db, dialect: dialect}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema 建立資料表
func (s *SQLStore) initSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS inventory_items (
			%s,
			id TEXT NOT NULL UNIQUE,
			household_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			quantity %s NOT NULL,
			unit TEXT NOT NULL,
			expires_on TEXT NOT NULL,
			tags_json TEXT NOT NULL DEFAULT '[]',
			barcode TEXT NOT NULL DEFAULT ''
		)`, s.dialect.seqColumn, s.dialect.realType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS recipes (
			%s,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			variant TEXT NOT NULL,
			base_recipe_id TEXT NOT NULL DEFAULT '',
			ingredients_json TEXT NOT NULL,
			steps_json TEXT NOT NULL,
			diet_tags_json TEXT NOT NULL DEFAULT '[]',
			pet_safety_json TEXT NOT NULL DEFAULT 'null'
		)`, s.dialect.seqColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pets (
			%s,
			id TEXT NOT NULL UNIQUE,
			household_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			species TEXT NOT NULL,
			breed TEXT NOT NULL DEFAULT '',
			birthdate TEXT NOT NULL DEFAULT '',
			weight_kg %s NOT NULL,
			allergies_json TEXT NOT NULL DEFAULT '[]',
			activity_level TEXT NOT NULL
		)`, s.dialect.seqColumn, s.dialect.realType),
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// q 依方言改寫佔位符
func (s *SQLStore) q(query string) string {
	if !s.dialect.rebind {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// insert 執行 INSERT，id 重複時回傳 ErrConflict
func (s *SQLStore) insert(ctx context.Context, kind, id, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, s.q(query), args...); err != nil {
		if s.dialect.uniqueViolation != nil && s.dialect.uniqueViolation(err) {
			return conflict(kind, id)
		}
		return fmt.Errorf("failed to insert %s: %w", kind, err)
	}
	return nil
}

const inventoryColumns = "id, household_id, name, quantity, unit, expires_on, tags_json, barcode"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInventoryItem(row rowScanner) (common.InventoryItem, error) {
	var item common.InventoryItem
	var tagsJSON string
	if err := row.Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Quantity, &item.Unit, &item.ExpiresOn, &tagsJSON, &item.Barcode); err != nil {
		return item, err
	}
	if err := common.ParseJSONBytes([]byte(tagsJSON), &item.Tags); err != nil {
		return item, fmt.Errorf("failed to decode tags: %w", err)
	}
	return item, nil
}

// ListInventory 依建立順序回傳庫存
func (s *SQLStore) ListInventory(ctx context.Context) ([]common.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+inventoryColumns+" FROM inventory_items ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	items := make([]common.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetInventoryItem 依 id 取得庫存
func (s *SQLStore) GetInventoryItem(ctx context.Context, id string) (common.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+inventoryColumns+" FROM inventory_items WHERE id = ?"), id)
	item, err := scanInventoryItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return common.InventoryItem{}, notFound("inventory item", id)
	}
	return item, err
}

// CreateInventoryItem 新增庫存
func (s *SQLStore) CreateInventoryItem(ctx context.Context, item common.InventoryItem) error {
	tags, err := encodeList(item.Tags)
	if err != nil {
		return err
	}
	return s.insert(ctx, "inventory item", item.ID, `INSERT INTO inventory_items (`+inventoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.HouseholdID, item.Name, item.Quantity, item.Unit, item.ExpiresOn, tags, item.Barcode)
}

// UpdateInventoryItem 更新庫存，保留原本的排序位置
func (s *SQLStore) UpdateInventoryItem(ctx context.Context, item common.InventoryItem) error {
	tags, err := encodeList(item.Tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE inventory_items
		SET household_id = ?, name = ?, quantity = ?, unit = ?, expires_on = ?, tags_json = ?, barcode = ?
		WHERE id = ?`),
		item.HouseholdID, item.Name, item.Quantity, item.Unit, item.ExpiresOn, tags, item.Barcode, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return requireAffected(res, "inventory item", item.ID)
}

// DeleteInventoryItem 刪除庫存
func (s *SQLStore) DeleteInventoryItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM inventory_items WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return requireAffected(res, "inventory item", id)
}

const recipeColumns = "id, title, variant, base_recipe_id, ingredients_json, steps_json, diet_tags_json, pet_safety_json"

func scanRecipe(row rowScanner) (common.Recipe, error) {
	var r common.Recipe
	var variant, ingredients, steps, dietTags, petSafety string
	if err := row.Scan(&r.ID, &r.Title, &variant, &r.BaseRecipeID, &ingredients, &steps, &dietTags, &petSafety); err != nil {
		return r, err
	}
	r.Variant = common.RecipeVariant(variant)

	decode := []struct {
		raw string
		dst interface{}
	}{
		{ingredients, &r.Ingredients},
		{steps, &r.Steps},
		{dietTags, &r.DietTags},
		{petSafety, &r.PetSafety},
	}
	for _, d := range decode {
		if err := common.ParseJSONBytes([]byte(d.raw), d.dst); err != nil {
			return r, fmt.Errorf("failed to decode recipe %s: %w", r.ID, err)
		}
	}
	return r, nil
}

// ListRecipes 依建立順序回傳食譜
func (s *SQLStore) ListRecipes(ctx context.Context) ([]common.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+recipeColumns+" FROM recipes ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]common.Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// GetRecipe 依 id 取得食譜
func (s *SQLStore) GetRecipe(ctx context.Context, id string) (common.Recipe, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+recipeColumns+" FROM recipes WHERE id = ?"), id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return common.Recipe{}, notFound("recipe", id)
	}
	return r, err
}

// CreateRecipe 新增食譜
func (s *SQLStore) CreateRecipe(ctx context.Context, recipe common.Recipe) error {
	ingredients, err := encodeList(recipe.Ingredients)
	if err != nil {
		return err
	}
	steps, err := encodeList(recipe.Steps)
	if err != nil {
		return err
	}
	dietTags, err := encodeList(recipe.DietTags)
	if err != nil {
		return err
	}
	petSafety, err := common.ToJSON(recipe.PetSafety)
	if err != nil {
		return err
	}

	return s.insert(ctx, "recipe", recipe.ID, `INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Title, string(recipe.Variant), recipe.BaseRecipeID, ingredients, steps, dietTags, petSafety)
}

const petColumns = "id, household_id, name, species, breed, birthdate, weight_kg, allergies_json, activity_level"

func scanPet(row rowScanner) (common.PetProfile, error) {
	var p common.PetProfile
	var species, activity, allergies string
	if err := row.Scan(&p.ID, &p.HouseholdID, &p.Name, &species, &p.Breed, &p.Birthdate, &p.WeightKg, &allergies, &activity); err != nil {
		return p, err
	}
	p.Species = common.Species(species)
	p.ActivityLevel = common.ActivityLevel(activity)
	if err := common.ParseJSONBytes([]byte(allergies), &p.Allergies); err != nil {
		return p, fmt.Errorf("failed to decode allergies: %w", err)
	}
	return p, nil
}

// ListPets 依建立順序回傳寵物
func (s *SQLStore) ListPets(ctx context.Context) ([]common.PetProfile, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+petColumns+" FROM pets ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}
	defer rows.Close()

	pets := make([]common.PetProfile, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, p)
	}
	return pets, rows.Err()
}

// GetPet 依 id 取得寵物
func (s *SQLStore) GetPet(ctx context.Context, id string) (common.PetProfile, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+petColumns+" FROM pets WHERE id = ?"), id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return common.PetProfile{}, notFound("pet", id)
	}
	return p, err
}

// CreatePet 新增寵物
func (s *SQLStore) CreatePet(ctx context.Context, pet common.PetProfile) error {
	allergies, err := encodeList(pet.Allergies)
	if err != nil {
		return err
	}
	return s.insert(ctx, "pet", pet.ID, `INSERT INTO pets (`+petColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pet.ID, pet.HouseholdID, pet.Name, string(pet.Species), pet.Breed, pet.Birthdate, pet.WeightKg, allergies, string(pet.ActivityLevel))
}

// Ping 檢查資料庫連線
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return common.ErrStoreUnavailable.WithErr(err)
	}
	return nil
}

// Close 關閉資料庫連線
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// encodeList 將切片編碼為 JSON，nil 以 [] 儲存
func encodeList[T any](list []T) (string, error) {
	if list == nil {
		list = []T{}
	}
	return common.ToJSON(list)
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
