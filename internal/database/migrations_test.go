package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_checkout_attempts", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS checkout_attempts")

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
}

func TestConfigDSN(t *testing.T) {
	t.Run("url wins", func(t *testing.T) {
		cfg := Config{URL: "postgres://u:p@db:5432/store?sslmode=disable", Host: "ignored"}
		assert.Equal(t, "postgres://u:p@db:5432/store?sslmode=disable", cfg.DSN())
	})

	t.Run("components", func(t *testing.T) {
		cfg := Config{Host: "localhost", Port: 5432, User: "store", Password: "secret", DBName: "storefront", SSLMode: "disable"}
		assert.Equal(t, "host=localhost port=5432 user=store password=secret dbname=storefront sslmode=disable", cfg.DSN())
	})
}
