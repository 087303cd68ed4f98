package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FillsMissingSections(t *testing.T) {
	conf, err := Parse([]byte("server:\n  http: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 9000, conf.Server.Http)
	assert.Equal(t, "dev", conf.App.Env)
	assert.Equal(t, int64(5), conf.Cache.DownloadLimit)
	assert.Equal(t, "photo_tagging", conf.RocketMQ.TagTopic)
	assert.False(t, conf.Redis.Enabled())
}

func TestParse_EnvOverridesYaml(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ALLOWED_HOSTS", "a.example.com,b.example.com")

	conf, err := Parse([]byte("jwt:\n  secret: from-yaml\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", conf.Jwt.Secret)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, conf.App.AllowedHosts)
}

func TestParse_InvalidYaml(t *testing.T) {
	_, err := Parse([]byte("server: ["))
	assert.Error(t, err)
}

func TestDevConfigLoads(t *testing.T) {
	if _, err := os.Stat("../configs/config.dev.yaml"); err != nil {
		t.Skip("dev config not present")
	}
	conf := New("../configs/config.dev.yaml")
	assert.Equal(t, "memory", conf.Storage.Driver)
	assert.True(t, conf.Debug())
	assert.Equal(t, int64(1800), conf.Jwt.AccessExpire)
}

func TestMySQL_MigrateDsn(t *testing.T) {
	m := &MySQL{Host: "db", Port: 3306, Username: "u", Password: "p", Database: "shutter", Charset: "utf8mb4"}
	assert.Equal(t, "u:p@tcp(db:3306)/shutter?charset=utf8mb4&parseTime=True&loc=Local", m.Dsn())
	assert.Equal(t, "mysql://"+m.Dsn()+"&multiStatements=true", m.MigrateDsn())
}
