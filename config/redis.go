package config

import "fmt"

// Redis Redis配置信息. An empty address switches the cache to in-process memory.
type Redis struct {
	Address  string `json:"address" yaml:"address" env:"REDIS_HOST"`
	Port     int    `json:"port" yaml:"port" env:"REDIS_PORT"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password" env:"REDIS_PASSWORD"`
	Database int    `json:"database" yaml:"database"`
}

func (r *Redis) Enabled() bool {
	return r != nil && r.Address != ""
}

func (r *Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Address, r.Port)
}

type MySQL struct {
	Host         string `json:"host" yaml:"host" env:"DB_HOST"`
	Port         int    `json:"port" yaml:"port" env:"DB_PORT"`
	Username     string `json:"username" yaml:"username" env:"DB_USER"`
	Password     string `json:"password" yaml:"password" env:"DB_PASSWORD"`
	Database     string `json:"database" yaml:"database" env:"DB_NAME"`
	Charset      string `json:"charset" yaml:"charset"`
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns" yaml:"max_idle_conns"`
	AutoMigrate  bool   `json:"auto_migrate" yaml:"auto_migrate"`
}

func (m *MySQL) Dsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		m.Username, m.Password, m.Host, m.Port, m.Database, m.Charset)
}

// MigrateDsn is the golang-migrate url for the same database.
func (m *MySQL) MigrateDsn() string {
	return "mysql://" + m.Dsn() + "&multiStatements=true"
}
