package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/server"
	"github.com/mugiliam/hatchsettingsrv/internal/settings"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/resolver"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to TOML configuration file")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	ctx := log.Logger.WithContext(context.Background())

	if *configPath != "" {
		if err := config.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("unable to load configuration")
		}
	}
	cfg := config.Config()

	rslv := resolver.New(resolver.Options{
		Languages: []string{cfg.Language},
	})
	reg := settings.New(rslv, cfg)
	if _, err := reg.RegisterDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("unable to register default settings domain")
	}

	s, err := server.CreateNewServer(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create server")
	}
	s.MountHandlers()

	log.Info().Str("addr", cfg.ServerAddr).Msg("starting settings server")
	if err := http.ListenAndServe(cfg.ServerAddr, s.Router); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
