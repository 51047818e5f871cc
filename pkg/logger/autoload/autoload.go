// Package autoload configures the global logger from LOG_* environment
// variables when imported.
package autoload

import (
	configx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/config"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		logx.Warn().Err(err).Msg("logger config invalid, using defaults")
		return
	}
	logx.Init(*conf)
}
