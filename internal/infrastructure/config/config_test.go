package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadFrom_Defaults(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: test-secret
`)
	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Cache.BookTTL)
	assert.Equal(t, uint32(5), cfg.Cache.BreakerMaxFailures)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, "bookreview.events", cfg.MQ.Exchange)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: mysql
  password: from-file
jwt:
  secret: test-secret
`)
	t.Setenv("BOOKREVIEW_DATABASE_PASSWORD", "from-env")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"端口非法", "server:\n  port: 70000\njwt:\n  secret: s\n"},
		{"驱动不支持", "database:\n  driver: oracle\njwt:\n  secret: s\n"},
		{"缺少JWT密钥", "server:\n  port: 8080\n"},
		{"生产环境默认密钥", "server:\n  mode: release\njwt:\n  secret: your-secret-key-change-in-production\n"},
		{"启用MQ缺少URL", "jwt:\n  secret: s\nmq:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "localhost", Port: 3306,
		DBName: "bookreview", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:pw@tcp(localhost:3306)/bookreview?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai&clientFoundRows=true",
		d.DSN())
}
