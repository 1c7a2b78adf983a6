// internal/workers/loan/compute-emi/config.go
package computeemi

import "time"

type Config struct {
	Timeout  time.Duration
	QuoteTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		QuoteTTL: time.Hour,
	}
}
