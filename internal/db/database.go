package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/models"
)

// Database wraps the SQLite connection holding the seed dataset and the
// persisted preferences
type Database struct {
	conn *sql.DB
}

// New creates a new database connection
func New(dbPath string) (*Database, error) {
	// Enable WAL mode and other optimizations via connection string
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_foreign_keys=on", dbPath)

	conn, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1) // SQLite works best with single writer
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &Database{conn: conn}

	if err := db.initialize(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// initialize creates tables and indexes
func (db *Database) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		plate TEXT UNIQUE NOT NULL,
		kind TEXT NOT NULL,
		grp TEXT NOT NULL,
		fleet TEXT NOT NULL,
		driver TEXT NOT NULL,
		status TEXT NOT NULL,
		state TEXT NOT NULL,
		speed_kmh INTEGER NOT NULL,
		last_signal_sec INTEGER NOT NULL,
		distance_today_km INTEGER NOT NULL,
		fuel_today_l INTEGER NOT NULL,
		idle_min INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		duration_min INTEGER NOT NULL,
		FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		when_min_ago INTEGER NOT NULL,
		vehicle_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_vehicles_fleet ON vehicles(fleet);
	CREATE INDEX IF NOT EXISTS idx_events_when ON events(when_min_ago);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.conn.Close()
}

const upsertVehicle = `
	INSERT INTO vehicles
	(id, plate, kind, grp, fleet, driver, status, state, speed_kmh,
	 last_signal_sec, distance_today_km, fuel_today_l, idle_min)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		plate = excluded.plate,
		kind = excluded.kind,
		grp = excluded.grp,
		fleet = excluded.fleet,
		driver = excluded.driver,
		status = excluded.status,
		state = excluded.state,
		speed_kmh = excluded.speed_kmh,
		last_signal_sec = excluded.last_signal_sec,
		distance_today_km = excluded.distance_today_km,
		fuel_today_l = excluded.fuel_today_l,
		idle_min = excluded.idle_min
`

// UpsertVehicles inserts or updates vehicles in one transaction. Vehicles
// keep their original position in listings when updated.
func (db *Database) UpsertVehicles(vehicles []models.Vehicle) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	count, err := upsertVehiclesTx(tx, vehicles)
	if err != nil {
		return count, err
	}
	return count, tx.Commit()
}

func upsertVehiclesTx(tx *sql.Tx, vehicles []models.Vehicle) (int64, error) {
	stmt, err := tx.Prepare(upsertVehicle)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var count int64
	for _, v := range vehicles {
		_, err := stmt.Exec(
			v.ID, v.Plate, v.Kind, v.Group, v.Fleet, v.Driver, string(v.Status), v.State,
			v.SpeedKmh, v.LastSignalSec, v.DistanceTodayKm, v.FuelTodayL, v.IdleMin,
		)
		if err != nil {
			return count, fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
		count++
	}
	return count, nil
}

// ReplaceDataset swaps the whole seed dataset atomically
func (db *Database) ReplaceDataset(ds models.Dataset) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"events", "routes", "vehicles"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := upsertVehiclesTx(tx, ds.Vehicles); err != nil {
		return err
	}

	for _, r := range ds.Routes {
		_, err := tx.Exec(`INSERT INTO routes (id, name, vehicle_id, duration_min) VALUES (?, ?, ?, ?)`,
			r.ID, r.Name, r.VehicleID, r.DurationMin)
		if err != nil {
			return fmt.Errorf("route %s: %w", r.ID, err)
		}
	}

	for _, e := range ds.Events {
		_, err := tx.Exec(`INSERT INTO events (id, when_min_ago, vehicle_id, kind, severity) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.WhenMinAgo, e.VehicleID, e.Kind, e.Severity)
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// SeedIfEmpty stores ds when no vehicle exists yet and reports whether it did
func (db *Database) SeedIfEmpty(ds models.Dataset) (bool, error) {
	n, err := db.VehicleCount()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := db.ReplaceDataset(ds); err != nil {
		return false, fmt.Errorf("failed to seed dataset: %w", err)
	}
	return true, nil
}

const vehicleColumns = `id, plate, kind, grp, fleet, driver, status, state, speed_kmh,
	last_signal_sec, distance_today_km, fuel_today_l, idle_min`

type scanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row scanner) (models.Vehicle, error) {
	var v models.Vehicle
	var status string
	err := row.Scan(
		&v.ID, &v.Plate, &v.Kind, &v.Group, &v.Fleet, &v.Driver, &status, &v.State,
		&v.SpeedKmh, &v.LastSignalSec, &v.DistanceTodayKm, &v.FuelTodayL, &v.IdleMin,
	)
	v.Status = models.VehicleStatus(status)
	return v, err
}

// GetVehicle retrieves a vehicle by ID
func (db *Database) GetVehicle(id string) (*models.Vehicle, error) {
	v, err := scanVehicle(db.conn.QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVehicles returns all vehicles in insertion order
func (db *Database) ListVehicles() ([]models.Vehicle, error) {
	rows, err := db.conn.Query(`SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// ListRoutes returns all routes in insertion order
func (db *Database) ListRoutes() ([]models.Route, error) {
	rows, err := db.conn.Query(`SELECT id, name, vehicle_id, duration_min FROM routes ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		var r models.Route
		if err := rows.Scan(&r.ID, &r.Name, &r.VehicleID, &r.DurationMin); err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// ListEvents returns events, most recent first
func (db *Database) ListEvents(limit int) ([]models.Event, error) {
	query := `SELECT id, when_min_ago, vehicle_id, kind, severity FROM events ORDER BY when_min_ago, rowid`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.WhenMinAgo, &e.VehicleID, &e.Kind, &e.Severity); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// LoadDataset reads the whole seed dataset
func (db *Database) LoadDataset() (models.Dataset, error) {
	var ds models.Dataset
	var err error

	if ds.Vehicles, err = db.ListVehicles(); err != nil {
		return ds, fmt.Errorf("failed to load vehicles: %w", err)
	}
	if ds.Routes, err = db.ListRoutes(); err != nil {
		return ds, fmt.Errorf("failed to load routes: %w", err)
	}
	if ds.Events, err = db.ListEvents(0); err != nil {
		return ds, fmt.Errorf("failed to load events: %w", err)
	}
	return ds, nil
}

// VehicleCount returns the number of stored vehicles
func (db *Database) VehicleCount() (int64, error) {
	var count int64
	err := db.conn.QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&count)
	return count, err
}

// GetStats returns database statistics
func (db *Database) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	for key, query := range map[string]string{
		"total_vehicles": "SELECT COUNT(*) FROM vehicles",
		"total_routes":   "SELECT COUNT(*) FROM routes",
		"total_events":   "SELECT COUNT(*) FROM events",
		"total_fleets":   "SELECT COUNT(DISTINCT fleet) FROM vehicles",
	} {
		var n int64
		if err := db.conn.QueryRow(query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to compute %s: %w", key, err)
		}
		stats[key] = n
	}

	return stats, nil
}

// LoadPreferences returns the stored preferences over the defaults. It
// never fails: storage errors are logged and the defaults are used.
func (db *Database) LoadPreferences() models.Preferences {
	prefs := models.DefaultPreferences()

	rows, err := db.conn.Query(`SELECT key, value FROM preferences`)
	if err != nil {
		logger.Debug().Err(err).Msg("preferences unavailable, using defaults")
		return prefs
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			logger.Debug().Err(err).Msg("skipping unreadable preference")
			continue
		}
		prefs = prefs.With(key, value)
	}
	if err := rows.Err(); err != nil {
		logger.Debug().Err(err).Msg("preferences partially read")
	}
	return prefs
}

// SavePreferences stores every preference. Callers treat failures as
// cosmetic.
func (db *Database) SavePreferences(p models.Preferences) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range p.Values() {
		_, err := tx.Exec(`
			INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
	}
	return tx.Commit()
}
