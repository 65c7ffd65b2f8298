package configs

import "time"

type StateService struct {
	Schedule    string        `env:"STATE_SERVICE_CRON" envDefault:"0 9 * * *"`
	ReminderAge time.Duration `env:"STATE_SERVICE_REMINDER_AGE" envDefault:"72h"`
}
