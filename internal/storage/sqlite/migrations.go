package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Money columns are TEXT holding fixed 2-decimal strings so that exact
// equality works for duplicate detection; percentages are TEXT decimals at
// full precision. Settlement order relies on (date, rowid), so rows never
// need an ordering column of their own.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS allocations (
    id TEXT PRIMARY KEY,
    rule_name TEXT NOT NULL,
    account_id TEXT NOT NULL,
    percentage TEXT NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    archived_at INTEGER,
    FOREIGN KEY (account_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    account_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    gross_amount TEXT,
    rule_name TEXT,
    description TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (account_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS balances (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    funding_account_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    amount_paid TEXT NOT NULL DEFAULT '0.00',
    settled INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (account_id) REFERENCES accounts(id),
    FOREIGN KEY (funding_account_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    amount TEXT NOT NULL,
    from_account_id TEXT NOT NULL,
    to_account_id TEXT NOT NULL,
    date TEXT NOT NULL,
    note TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (from_account_id) REFERENCES accounts(id),
    FOREIGN KEY (to_account_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS payment_applications (
    payment_id TEXT NOT NULL,
    balance_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (payment_id, balance_id),
    FOREIGN KEY (payment_id) REFERENCES payments(id) ON DELETE CASCADE,
    FOREIGN KEY (balance_id) REFERENCES balances(id)
);

CREATE INDEX IF NOT EXISTS idx_allocations_rule_name ON allocations(rule_name, archived);
CREATE INDEX IF NOT EXISTS idx_entries_dup ON entries(amount, account_id, date, created_at);
CREATE INDEX IF NOT EXISTS idx_balances_unsettled ON balances(account_id, funding_account_id, settled);
CREATE INDEX IF NOT EXISTS idx_balances_dup ON balances(amount, account_id, date, created_at);
CREATE INDEX IF NOT EXISTS idx_payments_dup ON payments(amount, from_account_id, to_account_id, date, created_at);
CREATE INDEX IF NOT EXISTS idx_payment_applications_payment ON payment_applications(payment_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
