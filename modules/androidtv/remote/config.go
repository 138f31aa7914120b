package remote

import (
	"errors"
	"time"
)

// Config is the androidtv.remote module configuration.
type Config struct {
	Host           string        `yaml:"host"`
	PairingPort    int           `yaml:"pairing_port"`
	RemotePort     int           `yaml:"remote_port"`
	ServiceName    string        `yaml:"service_name"`
	ClientName     string        `yaml:"client_name"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`

	// RetryDelay is the pause before pairing or connecting again after
	// Start gave up.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// StorePath is the credential database. Defaults to
	// {data_dir}/atvremote.db.
	StorePath   string `yaml:"store_path"`
	EventBuffer int    `yaml:"event_buffer"`
}

func (c *Config) defaults() {
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("androidtv.remote: host is required"))
	}
	for _, p := range []int{c.PairingPort, c.RemotePort} {
		if p < 0 || p > 65535 {
			errs = append(errs, errors.New("androidtv.remote: port out of range"))
		}
	}
	return errors.Join(errs...)
}
