// Package config assembles connection configuration, either by hand
// or unpacked from YAML/env via github.com/elastic/go-ucfg — the same
// library and `config:"..."` struct-tag convention packetd's
// confengine package uses.
package config

import (
	"time"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
)

// DefaultPort is the database's client port (§6).
const DefaultPort = 21212

// DefaultMaxOutstanding is the outstanding-call bound enforced by the
// connection engine (§4.3).
const DefaultMaxOutstanding = 3000

// Config holds everything needed to dial and authenticate a session.
type Config struct {
	Host     string `config:"host"`
	Port     int    `config:"port"`
	Username string `config:"username"`
	Password string `config:"password"`

	// MaxOutstanding bounds simultaneously in-flight calls (§4.3).
	// Zero means DefaultMaxOutstanding.
	MaxOutstanding int `config:"maxOutstanding"`

	// DialTimeout bounds the initial TCP connect + handshake. Zero
	// means no timeout (matches net.Dial's default behavior).
	DialTimeout time.Duration `config:"dialTimeout"`
}

// WithDefaults returns a copy of c with zero-valued fields filled in.
func (c Config) WithDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.MaxOutstanding == 0 {
		c.MaxOutstanding = DefaultMaxOutstanding
	}
	return c
}

// FromYAML unpacks a Config from YAML bytes, the shape confengine
// consumers use for file-based configuration.
func FromYAML(data []byte) (Config, error) {
	raw, err := yaml.NewConfig(data)
	if err != nil {
		return Config{}, err
	}
	return fromUcfg(raw)
}

func fromUcfg(raw *ucfg.Config) (Config, error) {
	var c Config
	if err := raw.Unpack(&c); err != nil {
		return Config{}, err
	}
	return c.WithDefaults(), nil
}
