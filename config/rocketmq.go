package config

type RocketMQConfig struct {
	Enabled    bool     `yaml:"enabled" env:"ROCKETMQ_ENABLED"`
	NameServer []string `yaml:"nameserver" env:"ROCKETMQ_NAMESERVER" envSeparator:","`
	TagTopic   string   `yaml:"tag_topic"`

	Producer Producer `yaml:"producer"`

	Consumer Consumer `yaml:"consumer"`
}

type Producer struct {
	Group string `yaml:"group"`
	Retry int    `yaml:"retry"`
}

type Consumer struct {
	Group string `yaml:"group"`
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	return cfg.RocketMQ
}
