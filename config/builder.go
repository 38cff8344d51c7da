package config

import (
	"github.com/srb2live/infoboard"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The config is assumed to have passed [Parse] validation; option-level
// validation still applies when the options are handed to infoboard.New.
func BuildOptions(cfg *Config) []infoboard.Option {
	opts := []infoboard.Option{
		infoboard.WithAPIURL(cfg.APIURL),
		infoboard.WithPort(cfg.Port),
		infoboard.WithStaticDir(cfg.StaticDir),
		infoboard.WithRefreshInterval(cfg.RefreshInterval.Duration()),
	}

	if cfg.Title != "" {
		opts = append(opts, infoboard.WithTitle(cfg.Title))
	}
	if cfg.GameServer != "" {
		opts = append(opts, infoboard.WithGameServer(cfg.GameServer))
	}
	if cfg.DatabaseURL != "" {
		opts = append(opts, infoboard.WithDatabaseURL(cfg.DatabaseURL))
	}

	return opts
}
