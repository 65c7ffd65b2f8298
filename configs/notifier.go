package configs

import "time"

type Notifier struct {
	PollInterval time.Duration `env:"CHANGE_NOTIFIER_POLL_INTERVAL" envDefault:"10s"`
}
