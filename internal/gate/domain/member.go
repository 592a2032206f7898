package domain

import "time"

// Member is a registered user of the recommendation service. The admission
// layer only ever reads username, id, roles, and the password hash; profile
// fields belong to the member business logic.
type Member struct {
	ID           string
	Username     string
	Nickname     string
	PasswordHash string // PHC-format argon2id
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
