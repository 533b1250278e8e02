package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDatabases(t *testing.T, databases []map[string]any) {
	t.Helper()
	viper.Set("databases", databases)
	t.Cleanup(func() { viper.Set("databases", nil) })
}

func TestGetActiveDBConfig(t *testing.T) {
	setDatabases(t, []map[string]any{
		{"name": "local", "driver": "mysql", "dsn": "root:root@tcp(127.0.0.1:3306)/shop", "active": false},
		{"name": "warehouse", "driver": "sqlserver", "dsn": "sqlserver://sa:pw@localhost?database=dw", "active": true},
	})

	config, err := GetActiveDBConfig()
	require.NoError(t, err)
	assert.Equal(t, "warehouse", config.Name)
	assert.Equal(t, "sqlserver", config.Driver)
}

func TestGetActiveDBConfig_Errors(t *testing.T) {
	setDatabases(t, []map[string]any{
		{"name": "a", "driver": "postgres", "dsn": "postgres://a", "active": true},
		{"name": "b", "driver": "postgres", "dsn": "postgres://b", "active": true},
	})
	_, err := GetActiveDBConfig()
	assert.ErrorContains(t, err, "multiple active databases found (a, b)")

	viper.Set("databases", []map[string]any{{"name": "a", "driver": "postgres", "active": true}})
	_, err = GetActiveDBConfig()
	assert.ErrorContains(t, err, `database "a" needs both driver and dsn`)

	viper.Set("databases", []map[string]any{{"name": "a", "driver": "postgres", "dsn": "postgres://a"}})
	_, err = GetActiveDBConfig()
	assert.ErrorIs(t, err, errNoActiveDB)
}

func TestGetDBConfig_FallsBackToFlags(t *testing.T) {
	setDatabases(t, nil)
	viper.Set("database.dsn", "file:shop.db")
	viper.Set("database.driver", "sqlite")
	t.Cleanup(func() {
		viper.Set("database.dsn", "")
		viper.Set("database.driver", "")
	})

	config, err := GetDBConfig()
	require.NoError(t, err)
	assert.Equal(t, DBConfig{Name: "command line", Driver: "sqlite", DSN: "file:shop.db", Active: true}, *config)

	viper.Set("database.driver", "")
	_, err = GetDBConfig()
	assert.ErrorIs(t, err, errNoActiveDB)
}
