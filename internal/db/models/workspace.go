package models

import "time"

// Workspace is the ownership boundary for decisions and votes. Every
// Telegram chat the bot participates in maps to one workspace.
type Workspace struct {
	ID               string     `json:"id" pg:"type:uuid,pk"`
	Name             string     `json:"name" pg:",notnull"`
	TelegramChatID   int64      `json:"telegram_chat_id" pg:",notnull,unique"`
	DiscordChannelID string     `json:"discord_channel_id"`
	CreatedAt        time.Time  `json:"created_at" pg:"default:now()"`
	Decisions        []Decision `json:"decisions" pg:"rel:has-many"`
}
