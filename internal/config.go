package internal

import (
	"net"
	"strconv"
	"time"
)

// Config carries every tunable of the server process. Defaults make a bare
// `mailroom-server` start on :8080 with snapshots under ./data.
type Config struct {
	Host            string        `env:"HOST,default=0.0.0.0"`
	Port            int           `env:"PORT,default=8080"`
	MaxClients      int           `env:"MAX_CLIENTS,default=50"`
	UsersFilepath   string        `env:"USERS_FILEPATH,default=data/users.db"`
	EmailsFilepath  string        `env:"EMAILS_FILEPATH,default=data/emails.db"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=10s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	DrainTimeout    time.Duration `env:"DRAIN_TIMEOUT,default=2s"`
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
