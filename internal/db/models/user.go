package models

type TelegramState struct {
	LastCommand      string
	LastCommandState string
}

type User struct {
	ID               int64         `json:"id" pg:",pk"`
	Name             string        `json:"name" pg:",notnull"`
	TelegramID       int64         `json:"telegram_id" pg:",notnull,unique"`
	TelegramNickname string        `json:"telegram_nickname" pg:",notnull,unique"`
	TempDecision     Decision      `json:"temp_decision"`
	TelegramState    TelegramState `json:"telegram_state"`
}
