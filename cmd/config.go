package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

var errNoActiveDB = errors.New("no active database found in config (set active: true)")

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the database marked active under databases.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig
	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var active *DBConfig
	for i := range configs {
		if !configs[i].Active {
			continue
		}
		if active != nil {
			return nil, fmt.Errorf("multiple active databases found (%s, %s): only one can be active", active.Name, configs[i].Name)
		}
		active = &configs[i]
	}
	if active == nil {
		return nil, errNoActiveDB
	}
	if active.Driver == "" || active.DSN == "" {
		return nil, fmt.Errorf("database %q needs both driver and dsn", active.Name)
	}
	return active, nil
}

// GetDBConfig prefers the active configured database and falls back to --dsn / --driver.
func GetDBConfig() (*DBConfig, error) {
	config, err := GetActiveDBConfig()
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, errNoActiveDB) {
		return nil, err
	}

	dsn := viper.GetString("database.dsn")
	driver := viper.GetString("database.driver")
	if dsn == "" || driver == "" {
		return nil, fmt.Errorf("%w, and --dsn/--driver are not both set", err)
	}
	return &DBConfig{Name: "command line", Driver: driver, DSN: dsn, Active: true}, nil
}
