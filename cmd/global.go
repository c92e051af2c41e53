package cmd

import (
	"fmt"

	"github.com/creativeprojects/imapstatus/cfg"
)

type GlobalFlags struct {
	configFile string
	quiet      bool
	verbose    bool
	format     string
	noJournal  bool
}

var global GlobalFlags

// loadConfig reads the configuration file and applies the command line overrides
func loadConfig() (*cfg.Config, error) {
	config, err := cfg.LoadFromFile(global.configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open or read configuration file: %w", err)
	}
	if global.format != "" {
		config.Output.Format = cfg.OutputFormat(global.format)
		if err = config.Validate(); err != nil {
			return nil, err
		}
	}
	return config, nil
}
