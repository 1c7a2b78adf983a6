// internal/workers/loan/record-loan-assessment/config.go
package recordloanassessment

import "time"

type Config struct {
	Timeout time.Duration
	Topic   string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Topic:   "loan.assessment.completed",
	}
}
