package helper

import (
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/pkg/api/v1"
)

const addressCLIFlag = "address"

func ClientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Aliases: []string{"a"},
			Sources: cli.EnvVars("GAME_SERVER_ADDR"),
			Name:    addressCLIFlag,
			Value:   "http://127.0.0.1:8080",
			Usage:   "Game server address to make API requests to",
		},
	}
}

func ClientConfigFromFlags(cmd *cli.Command) *api.Config {

	defaultConfig := api.DefaultConfig()

	if addr := cmd.String(addressCLIFlag); addr != "" {
		defaultConfig.Address = addr
	}

	return defaultConfig
}
