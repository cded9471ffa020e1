package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/artmorais77/backend-orise/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for the
// constraints GORM cannot express (partial unique indexes, expression indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates all tables and applies the schema patches.
// Also used by integration tests against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.Sequence{},
		&model.Product{},
		&model.CashRegister{},
		&model.CashMovement{},
		&model.Sale{},
		&model.SaleItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement uses IF NOT EXISTS semantics so re-running
// on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open register per store. The service pre-checks, but
		// this index is what actually wins concurrent open races.
		{"unique open register per store",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_cash_registers_open_store
			     ON cash_registers (store_id)
			     WHERE is_open`},

		// Product names are unique per store, case-insensitively.
		{"unique product name per store",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_products_store_name
			     ON products (store_id, LOWER(name))`},

		// Per-store display codes never collide within an entity.
		{"unique product code per store",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_products_store_code
			     ON products (store_id, code)`},
		{"unique register code per store",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_cash_registers_store_code
			     ON cash_registers (store_id, code)`},
		{"unique movement code per store",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_cash_movements_store_code
			     ON cash_movements (store_id, code)`},
		{"unique sale code per store",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_sales_store_code
			     ON sales (store_id, code)`},

		// Balance sums and sale adjustments only ever touch live rows.
		{"live movements by sale",
			`CREATE INDEX IF NOT EXISTS idx_cash_movements_live_sale
			     ON cash_movements (sale_id)
			     WHERE superseded = false AND sale_id IS NOT NULL`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
