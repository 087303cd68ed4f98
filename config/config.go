package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App      *App            `json:"app" yaml:"app"`
	Server   *Server         `json:"server" yaml:"server"`
	MySQL    *MySQL          `json:"mysql" yaml:"mysql"`
	Redis    *Redis          `json:"redis" yaml:"redis"`
	Jwt      *Jwt            `json:"jwt" yaml:"jwt"`
	Storage  *Storage        `json:"storage" yaml:"storage"`
	Llm      *Llm            `json:"llm" yaml:"llm"`
	RocketMQ *RocketMQConfig `json:"rocketmq" yaml:"rocketmq"`
	Cache    *Cache          `json:"cache" yaml:"cache"`
}

type Server struct {
	Http int `json:"http" yaml:"http" env:"HTTP_PORT"`
}

// New reads the yaml file, then applies .env and process environment overrides.
func New(filename string) *Config {
	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	conf, err := Parse(content)
	if err != nil {
		panic(fmt.Sprintf("parse %s: %v", filename, err))
	}
	return conf
}

// Parse builds a Config from yaml bytes. Sections missing from the file get defaults.
func Parse(content []byte) (*Config, error) {
	conf := Default()
	if err := yaml.Unmarshal(content, conf); err != nil {
		return nil, err
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return conf, nil
}

// Default is the configuration used for any section the yaml file leaves out.
func Default() *Config {
	return &Config{
		App:    &App{Env: "dev"},
		Server: &Server{Http: 8000},
		MySQL:  &MySQL{Host: "127.0.0.1", Port: 3306, Charset: "utf8mb4", MaxOpenConns: 50, MaxIdleConns: 10},
		Redis:  &Redis{},
		Jwt: &Jwt{
			AccessExpire:  1800,
			RefreshExpire: 7 * 24 * 3600,
		},
		Storage: &Storage{Driver: "oss", MaxUploadSize: 10 << 20},
		Llm: &Llm{
			Model:   "qwen3-vl-plus",
			Timeout: 30,
			Workers: 4,
		},
		RocketMQ: &RocketMQConfig{TagTopic: "photo_tagging"},
		Cache: &Cache{
			PhotoTTL:      3600,
			CollectionTTL: 3600,
			UserTTL:       600,
			DownloadsTTL:  600,
			ListTTL:       300,
			DownloadLimit: 5,
		},
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
