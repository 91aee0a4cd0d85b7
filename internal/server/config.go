package server

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
	"github.com/danielawaser/devops-project/internal/state"
)

type Config struct {
	Log   *logger.Config
	HTTP  *HTTPConfig
	State *state.Config
}

type HTTPConfig struct {
	Addr           string
	AccessLogLevel string
}

func DefaultConfig() *Config {
	return &Config{
		Log: logger.DefaultServerConfig(),
		HTTP: &HTTPConfig{
			Addr:           defaultHTTPAddr(),
			AccessLogLevel: zap.DebugLevel.String(),
		},
		State: state.DefaultConfig(),
	}
}

// defaultHTTPAddr honours the PORT environment variable set by the
// container runtime; the service must listen on it to receive traffic.
func defaultHTTPAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return fmt.Sprintf("http://0.0.0.0:%s", port)
	}
	return "http://0.0.0.0:8080"
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "http-addr",
			Usage:   "The HTTP server address",
			Sources: cli.EnvVars("GAME_SERVER_HTTP_ADDR"),
		},
		&cli.StringFlag{
			Name:    "http-access-log-level",
			Usage:   "The HTTP access log level (debug, info)",
			Sources: cli.EnvVars("GAME_SERVER_HTTP_ACCESS_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "state-backend",
			Usage:   "The state backend to use (dev)",
			Sources: cli.EnvVars("GAME_SERVER_STATE_BACKEND"),
		},
	}
}

func ConfigFromCLI(cmd *cli.Command) *Config {
	return &Config{
		HTTP: &HTTPConfig{
			Addr:           cmd.String("http-addr"),
			AccessLogLevel: cmd.String("http-access-log-level"),
		},
		State: &state.Config{
			Backend: cmd.String("state-backend"),
		},
	}
}

func (c *Config) Merge(other *Config) *Config {
	if c == nil {
		return other
	}

	result := *c

	if other.HTTP != nil {
		if result.HTTP == nil {
			result.HTTP = &HTTPConfig{}
		}
		if other.HTTP.Addr != "" {
			result.HTTP.Addr = other.HTTP.Addr
		}
		if other.HTTP.AccessLogLevel != "" {
			result.HTTP.AccessLogLevel = other.HTTP.AccessLogLevel
		}
	}

	if other.State != nil {
		if result.State == nil {
			result.State = &state.Config{}
		}
		result.State = result.State.Merge(other.State)
	}

	if other.Log != nil {
		result.Log = result.Log.Merge(other.Log)
	}

	return &result
}
