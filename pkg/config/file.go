package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigFile is returned when a config file cannot be read or parsed.
var ErrConfigFile = errors.New("config file")

// LoadFile reads a YAML config file. Durations use Go syntax ("90s", "10m").
// The result is not validated.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfigFile, path, err)
	}
	return &cfg, nil
}

// Overlay copies every non-empty setting of o onto c. Timeouts are overlaid
// field by field.
func (c *Config) Overlay(o *Config) {
	if o == nil {
		return
	}
	if o.Network.ChainID != "" {
		c.Network = o.Network
	}
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	str(&c.NodeURI, o.NodeURI)
	str(&c.ProviderURL, o.ProviderURL)
	str(&c.AquariusURL, o.AquariusURL)
	str(&c.AddressFile, o.AddressFile)
	str(&c.AddressNetwork, o.AddressNetwork)
	str(&c.PublisherKey, o.PublisherKey)
	str(&c.ConsumerKey, o.ConsumerKey)
	str(&c.IpfsURL, o.IpfsURL)
	if o.ProviderRPS != 0 {
		c.ProviderRPS = o.ProviderRPS
	}
	if o.Debug {
		c.Debug = true
	}

	t, ot := &c.Timeouts, o.Timeouts
	for _, p := range []struct{ dst, src *time.Duration }{
		{&t.Dial, &ot.Dial},
		{&t.ChainRead, &ot.ChainRead},
		{&t.ReceiptWait, &ot.ReceiptWait},
		{&t.HTTP, &ot.HTTP},
		{&t.IndexWait, &ot.IndexWait},
		{&t.JobWait, &ot.JobWait},
		{&t.PollInterval, &ot.PollInterval},
	} {
		if *p.src != 0 {
			*p.dst = *p.src
		}
	}
}
