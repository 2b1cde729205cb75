package config

import "time"

const (
	DefaultWorkDir     = "./downloads"
	DefaultHost        = "127.0.0.1"
	DefaultPort        = "8080"
	DefaultEnvironment = "production"
	DefaultLogLevel    = "info"

	// The UI pings every 30s; three missed pings end the process.
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultHeartbeatTimeout  = 90 * time.Second

	DefaultBrowserDelay = 1500 * time.Millisecond
	DefaultHistoryLimit = 50
)
