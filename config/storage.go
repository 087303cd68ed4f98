package config

// Storage selects the media backend. Driver is "oss" or "s3".
type Storage struct {
	Driver        string `json:"driver" yaml:"driver" env:"STORAGE_DRIVER"`
	PublicBaseURL string `json:"public_base_url" yaml:"public_base_url" env:"STORAGE_PUBLIC_URL"`
	MaxUploadSize int64  `json:"max_upload_size" yaml:"max_upload_size"`

	Oss OssConfig `json:"oss" yaml:"oss"`
	S3  S3Config  `json:"s3" yaml:"s3"`
}

type OssConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" yaml:"region"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	AccessKeyID     string `json:"ak" yaml:"ak" env:"OSS_AK"`
	AccessKeySecret string `json:"sk" yaml:"sk" env:"OSS_SK"`
}

// S3Config also covers MinIO through a custom endpoint.
type S3Config struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `json:"region" yaml:"region"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	AccessKeyID     string `json:"ak" yaml:"ak" env:"S3_AK"`
	AccessKeySecret string `json:"sk" yaml:"sk" env:"S3_SK"`
	UsePathStyle    bool   `json:"use_path_style" yaml:"use_path_style"`
}

func ProvideStorageConfig(cfg *Config) *Storage {
	return cfg.Storage
}

// Llm is the captioning model used for auto-tagging.
type Llm struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"LLM_ENABLED"`
	BaseURL string `json:"base_url" yaml:"base_url" env:"LLM_BASE_URL"`
	APIKey  string `json:"api_key" yaml:"api_key" env:"LLM_API_KEY"`
	Model   string `json:"model" yaml:"model"`
	Timeout int64  `json:"timeout" yaml:"timeout"`
	Workers int    `json:"workers" yaml:"workers"`
}

func ProvideLlmConfig(cfg *Config) *Llm {
	return cfg.Llm
}
