package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".formrows"
	envPrefix  = "FORMROWS"
)

// settings layers the command flags over an optional .formrows.yaml in the
// working directory (or --config) and FORMROWS_* environment variables.
// Explicit flags always win.
func (g *globalOptions) settings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if g.configFile != "" {
		v.SetConfigFile(g.configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath("./")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if g.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else {
		g.logger.Debug("config loaded", "file", v.ConfigFileUsed())
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}
	return v, nil
}
