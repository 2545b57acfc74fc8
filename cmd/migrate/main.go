//go:build migrate

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"

	"github.com/coinledger/backend/internal/config"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: migrate <up|down|version|force <n>>")
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// DATABASE_URL overrides the assembled DSN for hosted environments.
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.Database.DSN()
	}

	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open migrations")
	}
	defer m.Close()

	if err := run(m, os.Args[1:], log); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	log.Info().Str("command", command).Msg("done")
}

func run(m *migrate.Migrate, args []string, log zerolog.Logger) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return err
		}
		return nil

	case "down":
		if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
			return err
		}
		return nil

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema state")
		return nil

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(version)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
