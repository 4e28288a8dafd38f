package main

import (
	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app"
	"github.com/deformed-cactus/chessOpenings/app/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg.Logs)

	app.MustInitDB()

	router, err := app.NewRouter()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}
	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
