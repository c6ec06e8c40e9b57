package net

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the connection parameters for a bot session. Values come
// from flags, optionally seeded from a yaml file; flags win.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Code     string `yaml:"code"`
	Nickname string `yaml:"nickname"`
}

// DefaultConfig returns the parameters for a local server.
func DefaultConfig() Config {
	return Config{Host: "localhost", Port: 5000}
}

// LoadConfig reads a yaml config file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields a join URL cannot be built without.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Nickname == "" {
		return fmt.Errorf("nickname must not be empty")
	}
	return nil
}

// URL builds the websocket join URL.
func (c Config) URL() string {
	q := url.Values{}
	q.Set("nickname", c.Nickname)
	q.Set("playerType", "hackatonBot")
	if c.Code != "" {
		q.Set("joinCode", c.Code)
	}
	u := url.URL{
		Scheme:   "ws",
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/",
		RawQuery: q.Encode(),
	}
	return u.String()
}
