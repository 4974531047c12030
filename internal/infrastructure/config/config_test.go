package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: test
database:
  driver: sqlite
  path: ":memory:"
circulation:
  loan_days: 7
  fine_amount: "25.50"
  restock_on_return: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN())
	assert.Equal(t, 7, cfg.Circulation.LoanDays)
	assert.True(t, cfg.Circulation.RestockOnReturn)

	fine, err := cfg.Circulation.Fine()
	require.NoError(t, err)
	assert.Equal(t, "25.5", fine.String())

	// 未配置的字段使用默认值
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, "library.events", cfg.MQ.Exchange)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n")
	t.Setenv("LIBRARY_SERVER_PORT", "7070")
	t.Setenv("LIBRARY_CIRCULATION_LOAN_DAYS", "21")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 21, cfg.Circulation.LoanDays)
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Circulation.LoanDays)
	assert.Equal(t, "10.00", cfg.Circulation.FineAmount)
	assert.False(t, cfg.Circulation.RestockOnReturn)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"端口非法":     "server:\n  port: 70000\n",
		"未知驱动":     "database:\n  driver: oracle\n",
		"借期非正":     "circulation:\n  loan_days: 0\n",
		"罚款为负":     "circulation:\n  fine_amount: \"-1\"\n",
		"罚款格式错误":   "circulation:\n  fine_amount: ten\n",
		"生产环境默认密钥": "server:\n  mode: release\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	mysql := DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "h", Port: 3306, DBName: "lib", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Kolkata"}
	assert.Equal(t, "u:p@tcp(h:3306)/lib?charset=utf8mb4&parseTime=true&loc=Asia%2FKolkata", mysql.DSN())

	pg := DatabaseConfig{Driver: "postgres", User: "u", Password: "p", Host: "h", Port: 5432, DBName: "lib", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=lib sslmode=disable", pg.DSN())
}
