package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"ridenow/internal/config"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL CHECK (role IN ('rider', 'driver')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS wallets (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL UNIQUE REFERENCES users(id),
		balance    NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id             UUID PRIMARY KEY,
		user_id        UUID NOT NULL UNIQUE REFERENCES users(id),
		vehicle_model  TEXT NOT NULL,
		vehicle_number TEXT NOT NULL,
		rating         NUMERIC(4, 2) NOT NULL DEFAULT 5.00,
		is_active      BOOLEAN NOT NULL DEFAULT false,
		activated_at   TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS rides (
		id              UUID PRIMARY KEY,
		rider_id        UUID NOT NULL REFERENCES users(id),
		driver_id       UUID REFERENCES users(id),
		pickup_location TEXT NOT NULL,
		drop_location   TEXT NOT NULL,
		distance_km     NUMERIC(8, 2) NOT NULL,
		ride_type       TEXT NOT NULL CHECK (ride_type IN ('mini', 'prime', 'suv', 'luxury')),
		fare            NUMERIC(14, 2) NOT NULL,
		status          TEXT NOT NULL CHECK (status IN ('searching', 'found', 'on-way', 'arrived', 'completed', 'cancelled')),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		completed_at    TIMESTAMPTZ,
		cancelled_at    TIMESTAMPTZ,
		cancel_reason   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id          UUID PRIMARY KEY,
		wallet_id   UUID NOT NULL REFERENCES wallets(id),
		type        TEXT NOT NULL CHECK (type IN ('credit', 'debit')),
		amount      NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_rider_id ON rides (rider_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_driver_status ON rides (driver_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_wallet_id ON transactions (wallet_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_drivers_active ON drivers (is_active, activated_at)`,
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to ping database")
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logrus.WithError(err).WithField("statement", i).Fatal("migration failed")
		}
	}

	logrus.WithField("statements", len(statements)).Info("migration complete")
}
