package config

import "time"

type App struct {
	Env          string   `json:"env" yaml:"env" env:"APP_ENV"`
	Debug        bool     `json:"debug" yaml:"debug" env:"APP_DEBUG"`
	AllowedHosts []string `json:"allowed_hosts" yaml:"allowed_hosts" env:"ALLOWED_HOSTS" envSeparator:","`
	// HashSalt seeds collection slug suffixes.
	HashSalt string `json:"hash_salt" yaml:"hash_salt" env:"HASH_SALT"`
}

type Jwt struct {
	Secret        string `json:"secret" yaml:"secret" env:"JWT_SECRET"`
	AccessExpire  int64  `json:"access_expire" yaml:"access_expire"`
	RefreshExpire int64  `json:"refresh_expire" yaml:"refresh_expire"`
}

func (j *Jwt) AccessTTL() time.Duration {
	return time.Duration(j.AccessExpire) * time.Second
}

func (j *Jwt) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshExpire) * time.Second
}

// Cache TTLs are in seconds.
type Cache struct {
	PhotoTTL      int64 `json:"photo_ttl" yaml:"photo_ttl"`
	CollectionTTL int64 `json:"collection_ttl" yaml:"collection_ttl"`
	UserTTL       int64 `json:"user_ttl" yaml:"user_ttl"`
	DownloadsTTL  int64 `json:"downloads_ttl" yaml:"downloads_ttl"`
	ListTTL       int64 `json:"list_ttl" yaml:"list_ttl"`
	// DownloadLimit is the number of tracked downloads allowed per user per minute.
	DownloadLimit int64 `json:"download_limit" yaml:"download_limit" env:"DOWNLOAD_LIMIT"`
}

func Seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}
