// Package autoload initializes the global logger from LOG_* environment
// variables via a blank import.
package autoload

import (
	configx "github.com/wanderkit/concierge/pkg/config"
	logx "github.com/wanderkit/concierge/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
