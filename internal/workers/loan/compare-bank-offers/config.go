// internal/workers/loan/compare-bank-offers/config.go
package comparebankoffers

import "time"

type Config struct {
	Timeout time.Duration
	// MaxOffers caps the ranked list returned to the process; 0 returns all.
	MaxOffers int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   15 * time.Second,
		MaxOffers: 5,
	}
}
