package models

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Student{},
		&Adviser{},
		&AdviserProfile{},
		&Admin{},
		&AdviserApplication{},
		&MentorshipRequest{},
		&Message{},
		&Project{},
	}
}
