// internal/workers/loan/validate-loan-application/config.go
package validateloanapplication

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
