// internal/workers/loan/check-loan-eligibility/config.go
package checkloaneligibility

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
