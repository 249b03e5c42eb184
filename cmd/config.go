package cmd

import (
	"log"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/jopnelli/n8n-debugger/internal/config"
)

const (
	ConfigFileName      = ".n8n-debugger"
	ConfigFileExtension = ".yaml"
	DotEnvFileName      = ".env"
)

var (
	cfgFilePath string
	v           = viper.New()
)

func init() {
	if homePath, err := homedir.Dir(); err == nil {
		cfgFilePath = filepath.Join(homePath, ConfigFileName+ConfigFileExtension)
	}

	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&cfgFilePath, "config", cfgFilePath, "config file (default is $HOME/.n8n-debugger.yaml)")
	flags.StringP("format", "o", "console", "Output format: console, json, yaml or junit")
	flags.String("filter", "", "Only list nodes matching an expression over name, status, success, items and time")
	flags.Bool("no-hint", false, "Omit the drill-down hint after the node list")
	flags.String("log-level", "", "Diagnostic log level: debug, info, warn or error (default error)")

	if err := config.Setup(v); err != nil {
		log.Fatalf("error binding environment: %s", err)
	}
	for key, flag := range map[string]string{
		config.KeyFormat:   "format",
		config.KeyFilter:   "filter",
		config.KeyNoHint:   "no-hint",
		config.KeyLogLevel: "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.Fatalf("error binding flag %s: %s", flag, err)
		}
	}
}
