package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	appconfig "github.com/ian97531/boombox/internal/app/config"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the boombox configuration file",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := string(common.ConfigPath())
		if err := appconfig.Save(appconfig.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Validate and print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(string(common.ConfigPath()))
		if err != nil {
			return err
		}
		cfg.Storage.SecretKey = redact(cfg.Storage.SecretKey)
		cfg.Redis.Password = redact(cfg.Redis.Password)

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

func init() {
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
}
