package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Gateways  map[string]GatewayConfig  `yaml:"gateways"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Memory    MemoryConfig              `yaml:"memory"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

type GatewayConfig struct {
	Token   string `yaml:"token,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type MemoryConfig struct {
	Path string `yaml:"path"`
}

func LoadConfig(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	return &cfg
}

// DefaultProvider returns the first enabled provider.
func (c *Config) DefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// WebGateway returns the web gateway config if enabled.
func (c *Config) WebGateway() (GatewayConfig, bool) {
	return c.gateway("web")
}

// TelegramGateway returns the telegram gateway config if enabled.
func (c *Config) TelegramGateway() (GatewayConfig, bool) {
	return c.gateway("telegram")
}

// DiscordGateway returns the discord gateway config if enabled.
func (c *Config) DiscordGateway() (GatewayConfig, bool) {
	return c.gateway("discord")
}

func (c *Config) gateway(name string) (GatewayConfig, bool) {
	g, ok := c.Gateways[name]
	if ok && g.Enabled {
		return g, true
	}
	return GatewayConfig{}, false
}
