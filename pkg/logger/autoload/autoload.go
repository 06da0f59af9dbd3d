// Package autoload initializes the global logger from the environment as a
// blank-import side effect.
package autoload

import (
	configx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/config"
	logx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
