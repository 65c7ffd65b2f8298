package configs

type Discord struct {
	Token string `env:"DISCORD_ANNOUNCER_TOKEN"`
}

func (c Discord) Enabled() bool {
	return c.Token != ""
}
