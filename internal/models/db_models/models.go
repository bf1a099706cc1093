package db_models

// All lists every table the API owns, in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Post{},
		&Feedback{},
		&ContactMessage{},
		&NotificationTask{},
		&PostEmbedding{},
		&AccessibilityLog{},
	}
}
