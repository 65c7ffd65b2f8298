package configs

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type DecisionBotConfig struct {
	App      App
	Bot      Bot
	DB       DB
	Discord  Discord
	Logger   Logger
	Notifier Notifier
}

type DecisionStateServiceConfig struct {
	App          App
	Bot          Bot
	DB           DB
	Discord      Discord
	Logger       Logger
	StateService StateService
}

func LoadDecisionBotConfig() (DecisionBotConfig, error) {
	var config DecisionBotConfig

	if err := env.Parse(&config); err != nil {
		return DecisionBotConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

func LoadDecisionStateServiceConfig() (DecisionStateServiceConfig, error) {
	var config DecisionStateServiceConfig

	if err := env.Parse(&config); err != nil {
		return DecisionStateServiceConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}
