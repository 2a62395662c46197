package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PRODUCT_TYPES", "")
	t.Setenv("LICENSE_ENFORCE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverBolt, cfg.Store.Driver)
	assert.Equal(t, []string{"Articulos de aseo", "Alimentos", "Bebidas"}, cfg.Inventory.ProductTypes)
	assert.True(t, cfg.License.Enforce)
	assert.Equal(t, 365*24*time.Hour, cfg.License.Duration)
	assert.Equal(t, 300*time.Millisecond, cfg.Inventory.SearchDebounce)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("STORE_PATH", "/tmp/pos.db")
	t.Setenv("PRODUCT_TYPES", " Bebidas , ,Lacteos")
	t.Setenv("LOW_STOCK_THRESHOLD", "12")
	t.Setenv("LICENSE_ENFORCE", "false")
	t.Setenv("LICENSE_DURATION", "48h")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "/tmp/pos.db", cfg.Store.Path)
	assert.Equal(t, []string{"Bebidas", "Lacteos"}, cfg.Inventory.ProductTypes)
	assert.Equal(t, 12, cfg.Inventory.LowStockThreshold)
	assert.False(t, cfg.License.Enforce)
	assert.Equal(t, 48*time.Hour, cfg.License.Duration)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestBackupEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.BackupEnabled())

	cfg.Backup = BackupConfig{Endpoint: "http://minio:9000", AccessKeyID: "key", SecretAccessKey: "secret"}
	assert.True(t, cfg.BackupEnabled())
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "pos", SSLMode: "disable"}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pos sslmode=disable", cfg.GetDSN())
}
