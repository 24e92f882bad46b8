package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Gateway struct {
		Address string `yaml:"Address"`
	} `yaml:"Gateway"`
	Storage struct {
		Endpoint     string `yaml:"Endpoint"`
		AccessKey    string `yaml:"AccessKey"`
		AccessSecret string `yaml:"AccessSecret"`
		Region       string `yaml:"Region"`
		Bucket       string `yaml:"Bucket"`
	} `yaml:"Storage"`
	Database struct {
		DSN string `yaml:"DSN"`
	} `yaml:"Database"`
	Cache struct {
		Address  string `yaml:"Address"`
		Password string `yaml:"Password"`
		ImageDB  int    `yaml:"ImageDB"`
		GameDB   int    `yaml:"GameDB"`
	} `yaml:"Cache"`
	Auth struct {
		URL     string `yaml:"URL"`
		AnonKey string `yaml:"AnonKey"`
	} `yaml:"Auth"`
	App struct {
		AllowedOrigin    string   `yaml:"AllowedOrigin"`
		MaxFileSize      int64    `yaml:"MaxFileSize"`
		AllowedFileTypes []string `yaml:"AllowedFileTypes"`
		Environment      string   `yaml:"Environment"`
	} `yaml:"App"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"Gateway.Address", c.Gateway.Address},
		{"Storage.Endpoint", c.Storage.Endpoint},
		{"Storage.AccessKey", c.Storage.AccessKey},
		{"Storage.AccessSecret", c.Storage.AccessSecret},
		{"Storage.Region", c.Storage.Region},
		{"Storage.Bucket", c.Storage.Bucket},
		{"Database.DSN", c.Database.DSN},
		{"Cache.Address", c.Cache.Address},
		{"Auth.URL", c.Auth.URL},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("empty config `%s`", r.name)
		}
	}

	return nil
}
