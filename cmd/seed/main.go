// Command seed loads the support directory and optionally creates the first admin account.
package main

import (
	"context"
	"flag"
	"os"

	"ame_support_backend/cmd/api/config"
	"ame_support_backend/internal/database"
	"ame_support_backend/internal/models"
	"ame_support_backend/internal/seed"
	"ame_support_backend/internal/services"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	resourcesFile := flag.String("resources", "", "YAML file with resources (defaults to the built-in directory)")
	skipResources := flag.Bool("skip-resources", false, "do not replace the resource directory")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger := cfg.SetupLogger()
	ctx := logger.WithContext(context.Background())

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise database")
	}

	if !*skipResources {
		var resources []models.Resource
		if *resourcesFile != "" {
			data, err := os.ReadFile(*resourcesFile)
			if err != nil {
				logger.Fatal().Err(err).Msg("Failed to read resources file")
			}
			resources, err = seed.LoadResources(data)
			if err != nil {
				logger.Fatal().Err(err).Msg("Invalid resources file")
			}
		} else if resources, err = seed.DefaultResources(); err != nil {
			logger.Fatal().Err(err).Msg("Invalid built-in resources")
		}

		if err := services.NewResourceService(db).Seed(ctx, resources); err != nil {
			logger.Fatal().Err(err).Msg("Failed to seed resources")
		}
		logger.Info().Int("count", len(resources)).Msg("Resources seeded successfully")
	}

	if cfg.AdminPassword == "" {
		logger.Info().Msg("ADMIN_PASSWORD not set, skipping admin account")
		return
	}
	// Password hashing only; no tokens are issued here.
	users := services.NewUserService(db, nil)
	user, created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create admin user")
	}
	if created {
		logger.Info().Str("email", user.Email).Msg("Admin user created")
	} else {
		logger.Info().Str("email", user.Email).Msg("Admin user already exists")
	}
}
