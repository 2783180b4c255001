// ABOUTME: Fixed provisioning schema for the Discord heart reactions table.
// ABOUTME: Column set and order match the table the Discord bot writes into.

package nocodb

// ReactionsTableSchema returns the table-creation payload for
// nocodb_create_discord_reactions_table. A fresh value is built per call so
// callers cannot mutate the template.
func ReactionsTableSchema() map[string]any {
	return map[string]any{
		"table_name": "discord_heart_reactions",
		"title":      "Discord Heart Reactions",
		"columns": []map[string]any{
			{"column_name": "message_content", "title": "Message Content", "uidt": "Text", "required": true},
			{"column_name": "sref_code", "title": "SREF Code", "uidt": "SingleLineText"},
			{"column_name": "image_url", "title": "Image URL", "uidt": "URL"},
			{"column_name": "cinematic", "title": "Cinematic", "uidt": "Checkbox", "default": false},
			{"column_name": "anime", "title": "Anime", "uidt": "Checkbox", "default": false},
			{"column_name": "colors", "title": "Colors", "uidt": "Text"},
			{"column_name": "shot_type", "title": "Shot Type", "uidt": "SingleLineText"},
			{"column_name": "mood", "title": "Mood", "uidt": "SingleLineText"},
			{"column_name": "style", "title": "Style", "uidt": "SingleLineText"},
			{"column_name": "subject", "title": "Subject", "uidt": "Text"},
			{"column_name": "discord_message_id", "title": "Discord Message ID", "uidt": "SingleLineText", "required": true, "unique": true},
			{"column_name": "discord_channel_id", "title": "Discord Channel ID", "uidt": "SingleLineText", "required": true},
			{"column_name": "timestamp", "title": "Timestamp", "uidt": "DateTime", "required": true},
		},
	}
}
