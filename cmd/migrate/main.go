// migrate aplica o revierte las migraciones embebidas contra la base configurada.
//
// Uso: go run ./cmd/migrate [up | down [pasos] | version]
// Sin argumentos equivale a "up".
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/Gastos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gastos-api/pkg/config"
	"github.com/jhoicas/Gastos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")
	dsn := cfg.DB.ConnectionString()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := postgres.RunMigrations(dsn); err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
		log.Info().Msg("migraciones aplicadas")
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil || n <= 0 {
				log.Fatal().Str("pasos", os.Args[2]).Msg("cantidad de pasos inválida")
			}
			steps = n
		}
		if err := postgres.RollbackMigrations(dsn, steps); err != nil {
			log.Fatal().Err(err).Msg("migrate down")
		}
		log.Info().Int("pasos", steps).Msg("migraciones revertidas")
	case "version":
		v, dirty, err := postgres.MigrationVersion(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate version")
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión de esquema")
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (use up, down [pasos] o version)\n", cmd)
		os.Exit(2)
	}
}
