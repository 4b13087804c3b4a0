package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createBusinessTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE businesses (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		payout_account_id TEXT,
		payout_account_type TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE products (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		currency TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createBillingTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE stripe_customers (
		user_id TEXT PRIMARY KEY,
		stripe_customer_id TEXT NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE purchases (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		business_id TEXT NOT NULL,
		reference TEXT,
		checkout_session_id TEXT UNIQUE NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE scheduled_payments (
		id TEXT PRIMARY KEY,
		purchase_id TEXT UNIQUE NOT NULL,
		product_id TEXT NOT NULL,
		scheduled_for INTEGER NOT NULL CHECK (scheduled_for BETWEEN 1 AND 28),
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createOrphanTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE orphaned_processor_objects (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		processor_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		resolved_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
