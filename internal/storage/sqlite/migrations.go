package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Tickets embed their bike and customer snapshots as columns; there is
// deliberately no foreign key to bikes because removed bikes keep their history.
const schema = `
CREATE TABLE IF NOT EXISTS bikes (
    id INTEGER PRIMARY KEY,
    position INTEGER NOT NULL,
    make TEXT NOT NULL,
    model TEXT NOT NULL,
    status TEXT NOT NULL,
    hourly_rate REAL NOT NULL,
    rented_by TEXT
);

CREATE TABLE IF NOT EXISTS tickets (
    id INTEGER PRIMARY KEY,
    status TEXT NOT NULL,
    bike_id INTEGER NOT NULL,
    bike_make TEXT NOT NULL,
    bike_model TEXT NOT NULL,
    bike_hourly_rate REAL NOT NULL,
    bike_status TEXT NOT NULL,
    customer_id INTEGER,
    customer_name TEXT NOT NULL,
    customer_phone TEXT NOT NULL,
    start_time TEXT NOT NULL,
    planned_hours REAL NOT NULL,
    end_time TEXT NOT NULL DEFAULT '',
    total_fee REAL NOT NULL DEFAULT 0,
    system_notes TEXT NOT NULL DEFAULT '',
    personal_notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bikes_position ON bikes(position);
CREATE INDEX IF NOT EXISTS idx_tickets_customer ON tickets(customer_name, customer_phone);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
