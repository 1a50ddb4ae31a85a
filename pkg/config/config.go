package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ModelSettings struct {
		Model          string  `yaml:"model"`
		Temperature    float64 `yaml:"temperature"`
		MaxTokens      int64   `yaml:"max_tokens"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"model_settings"`
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	CharactersPath string `yaml:"characters_path"`
}

func defaults() *Config {
	config := &Config{}
	config.ModelSettings.Model = "gpt-4o-mini"
	config.ModelSettings.Temperature = 0.6
	config.ModelSettings.MaxTokens = 220
	config.ModelSettings.TimeoutSeconds = 30
	config.Server.Port = "8001"
	return config
}

// LoadConfig reads path and overlays it on the defaults, so partial files
// inherit the missing values. A missing file is not an error; the defaults
// are returned as-is.
func LoadConfig(path string) (*Config, error) {
	config := defaults()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
