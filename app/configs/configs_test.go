package configs

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadEnvDefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("CSRF_ENABLED", "")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_MAX_RETRIES", "not-a-number")
	t.Setenv("AUTH_ENFORCE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("CURRENCY_SYMBOL", "")

	env := LoadEnv()
	assert.Equal(t, "8000", env.Port)
	assert.Equal(t, "postgres", env.DBDriver)
	assert.Equal(t, 10, env.DBMaxRetries)
	assert.True(t, env.AuthEnforce)
	assert.False(t, env.CSRFEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, env.CORSOrigins)
	assert.Equal(t, "R$ ", env.CurrencySymbol)
	assert.False(t, env.IsProduction())
}

func TestDialector(t *testing.T) {
	env := ENV{DBDriver: "mysql", DBUser: "root", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "smartmart"}
	d, dsn, err := Dialector(env)
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())
	assert.Equal(t, "root:pw@tcp(db:3306)/smartmart?charset=utf8mb4&parseTime=True&loc=Local", dsn)

	env.DBDriver = "postgres"
	d, dsn, err = Dialector(env)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
	assert.Contains(t, dsn, "dbname=smartmart")

	env.DBDriver = "sqlite"
	env.DatabaseURL = "file::memory:"
	d, dsn, err = Dialector(env)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, "file::memory:", dsn)

	env.DBDriver = "oracle"
	_, _, err = Dialector(env)
	assert.Error(t, err)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
	assert.Equal(t, logger.Warn, gormLogLevel("whatever"))
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db)/x", redactDSN("root:hunter2@tcp(db)/x", "hunter2"))
	assert.Equal(t, "root@tcp(db)/x", redactDSN("root@tcp(db)/x", ""))
}

func TestLoadSessionKeys(t *testing.T) {
	keys, err := LoadSessionKeys(ENV{SecretKey: "mysecretkey"})
	require.NoError(t, err)
	assert.Equal(t, []byte("mysecretkey"), keys.HashKey)
	assert.Nil(t, keys.BlockKey)
	assert.Nil(t, keys.CSRFKey)

	enc := base64.URLEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	keys, err = LoadSessionKeys(ENV{SecretKey: "s", SessionEncKey: enc, CSRFEnabled: true, CSRFKey: enc})
	require.NoError(t, err)
	assert.Len(t, keys.BlockKey, 32)
	assert.Len(t, keys.CSRFKey, 32)

	_, err = LoadSessionKeys(ENV{SecretKey: "s", SessionEncKey: base64.URLEncoding.EncodeToString([]byte("short"))})
	assert.Error(t, err)

	_, err = LoadSessionKeys(ENV{SecretKey: "s", CSRFEnabled: true})
	assert.Error(t, err)
}

func TestGenerateAndPrintSessionKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateAndPrintSessionKeys(&buf))

	values := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		k, v, ok := strings.Cut(line, "=")
		require.True(t, ok, line)
		values[k] = v
	}
	require.Contains(t, values, "SECRET_KEY")

	keys, err := LoadSessionKeys(ENV{SecretKey: values["SECRET_KEY"], SessionEncKey: values["SESSION_ENC_KEY"], CSRFEnabled: true, CSRFKey: values["CSRF_KEY"]})
	require.NoError(t, err)
	assert.Len(t, keys.BlockKey, 32)
}
