package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The service only reads these tables; the statements let a fresh database host
// the collections the agent and admin tools write to.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'location_type') THEN
			CREATE TYPE location_type AS ENUM ('HOTEL', 'WORKSITE');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'log_route') THEN
			CREATE TYPE log_route AS ENUM ('HOTEL_TO_SITE', 'SITE_TO_HOTEL');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'log_status') THEN
			CREATE TYPE log_status AS ENUM ('IN_TRANSIT', 'ARRIVED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'manual_status') THEN
			CREATE TYPE manual_status AS ENUM ('COMPLETE', 'CANCELLED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		type location_type NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS scheduled_trips (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		depart_location_id UUID NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		arrival_location_id UUID NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		day_of_week VARCHAR(16) NOT NULL,
		shift_start_time VARCHAR(16),
		pm_shift_start_time VARCHAR(16),
		am_external_id VARCHAR(64),
		pm_external_id VARCHAR(64),
		bus_arrival_at_hotel VARCHAR(16),
		boarding_begins VARCHAR(16),
		hotel_departure VARCHAR(16),
		bus_arrival_at_site VARCHAR(16),
		staging VARCHAR(16),
		site_departure VARCHAR(16),
		bus_arrival_at_hotel_return VARCHAR(16),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		manual_status manual_status,
		manual_pax INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_trips_day ON scheduled_trips (day_of_week);`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_trips_arrival ON scheduled_trips (arrival_location_id);`,
	`CREATE TABLE IF NOT EXISTS log_entries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		timestamp TIMESTAMPTZ NOT NULL,
		route log_route NOT NULL,
		depart_location_id UUID NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		arrival_location_id UUID NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		passenger_count INTEGER NOT NULL DEFAULT 0,
		status log_status NOT NULL,
		actual_arrival_time TIMESTAMPTZ,
		eta TIMESTAMPTZ,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_log_entries_timestamp ON log_entries (timestamp);`,
	`CREATE TABLE IF NOT EXISTS bus_check_ins (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		timestamp TIMESTAMPTZ NOT NULL,
		location_id UUID NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_bus_check_ins_timestamp ON bus_check_ins (timestamp);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
