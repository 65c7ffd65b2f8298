package configs

type Logger struct {
	URL     string `env:"LOKI_URL"`
	AppName string `env:"LOGGER_APP_NAME" envDefault:"pulse-decisions"`
}
