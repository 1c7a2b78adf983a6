// internal/workers/loan/notify-eligibility-result/config.go
package notifyeligibilityresult

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 20 * time.Second,
	}
}
