// Command mockapi runs the local development backend.
package main

import (
	"github.com/minimall/storefront-client/internal/mockapi"
	"github.com/minimall/storefront-client/internal/pkg/config"
	"github.com/minimall/storefront-client/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	srv := mockapi.New(mockapi.Config{
		JWTSecret: cfg.Mock.JWTSecret,
		Log:       log,
	})

	log.Info().Str("port", cfg.Mock.Port).Msg("mock backend listening")
	if err := srv.Start(":" + cfg.Mock.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
