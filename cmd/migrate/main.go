package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/database"
	"HostelAPI/internal/env"
	"HostelAPI/internal/logging"
)

func main() {
	dsn := flag.String("db", "", "database DSN (defaults to DATABASE_URL)")
	promote := flag.String("promote", "", "email of an existing user to make admin")
	role := flag.String("role", string(auth.RoleAdmin), "role given by -promote")
	flag.Parse()

	if err := env.LoadDotEnv(); err != nil {
		logging.Debug().Msg("No .env file found")
	}

	if *dsn == "" {
		cfg, err := env.Load()
		if err != nil {
			logging.Fatal().Err(err).Msg("Invalid configuration")
		}
		*dsn = cfg.DatabaseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, *dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("Migration failed")
	}
	logging.Info().Msg("Database migration complete")

	if *promote == "" {
		return
	}

	r := auth.Role(*role)
	if !r.Valid() {
		logging.Fatal().Str("role", *role).Msg("Unknown role")
	}
	err = auth.NewRepository(db).SetRoleByEmail(ctx, *promote, r)
	if errors.Is(err, auth.ErrUserNotFound) {
		logging.Fatal().Str("email", *promote).Msg("No user with that email, register first")
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to promote user")
	}
	logging.Info().Str("email", *promote).Str("role", *role).Msg("User promoted")
}

/*
This project is the backend API for the hostel management system: mess menus, room bookings, complaints, lost and found and counseling appointments.
Hostel API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
