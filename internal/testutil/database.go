package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
//
//nolint:funlen // Database schema DDL
func createTestSchema(db *sql.DB) error {
	schema := `
		-- User table
		CREATE TABLE user (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Property table
		CREATE TABLE property (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			address TEXT NOT NULL,
			total_shares INTEGER NOT NULL,
			price_per_share TEXT NOT NULL,
			available_shares INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Investment table
		CREATE TABLE investment (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			property_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			shares INTEGER NOT NULL,
			price_per_share_at_purchase TEXT NOT NULL,
			status VARCHAR(10) NOT NULL,
			purchase_date DATE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(property_id) REFERENCES property(id),
			FOREIGN KEY(user_id) REFERENCES user(id)
		);

		-- Rental statement table
		CREATE TABLE rental_statement (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			property_id VARCHAR(36) NOT NULL,
			period_start DATE NOT NULL,
			period_end DATE NOT NULL,
			gross_revenue TEXT NOT NULL,
			operating_costs TEXT NOT NULL,
			management_fee TEXT NOT NULL,
			income_adjustment TEXT NOT NULL,
			net_distributable TEXT NOT NULL,
			operating_cost_items TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(property_id) REFERENCES property(id),
			CONSTRAINT unique_statement_period UNIQUE (property_id, period_start, period_end)
		);

		-- Distribution table
		CREATE TABLE distribution (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			rental_statement_id VARCHAR(36) NOT NULL UNIQUE,
			property_id VARCHAR(36) NOT NULL,
			status VARCHAR(20) NOT NULL,
			total_distributed TEXT NOT NULL,
			approved_by VARCHAR(36),
			approved_at DATETIME,
			approval_notes TEXT,
			rejection_notes TEXT,
			declared_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(rental_statement_id) REFERENCES rental_statement(id),
			FOREIGN KEY(property_id) REFERENCES property(id)
		);

		-- Payout table
		CREATE TABLE payout (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			distribution_id VARCHAR(36) NOT NULL,
			holder_type VARCHAR(20) NOT NULL,
			user_id VARCHAR(36),
			shares_at_record INTEGER NOT NULL,
			amount TEXT NOT NULL,
			status VARCHAR(10) NOT NULL,
			paid_at DATETIME,
			payment_method VARCHAR(30),
			payment_reference TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(distribution_id) REFERENCES distribution(id) ON DELETE CASCADE,
			FOREIGN KEY(user_id) REFERENCES user(id)
		);

		-- Ledger transaction table
		CREATE TABLE ledger_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			type VARCHAR(10) NOT NULL,
			amount TEXT NOT NULL,
			user_id VARCHAR(36),
			property_id VARCHAR(36) NOT NULL,
			distribution_id VARCHAR(36),
			payout_id VARCHAR(36),
			investment_id VARCHAR(36),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(property_id) REFERENCES property(id)
		);

		-- Audit log table
		CREATE TABLE audit_log (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			actor_id VARCHAR(36) NOT NULL,
			action VARCHAR(50) NOT NULL,
			entity_type VARCHAR(30) NOT NULL,
			entity_id VARCHAR(36) NOT NULL,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := db.Exec(schema)
	return err
}
