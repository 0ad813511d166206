package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, 12*time.Hour, cfg.AdminSessionTTL)
	assert.Equal(t, 10*1024*1024, cfg.MaxUploadBytes)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("ADMIN_SESSION_TTL", "30m")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.AdminSessionTTL)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}, "DB driver is invalid"},
		{"unknown storage", map[string]string{"STORAGE_BACKEND": "ftp"}, "storage backend is invalid"},
		{"s3 without bucket", map[string]string{"STORAGE_BACKEND": "s3"}, "S3_BUCKET is required"},
		{"zero upload limit", map[string]string{"MAX_UPLOAD_BYTES": "0"}, "MAX_UPLOAD_BYTES must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
