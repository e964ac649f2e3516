package models

import "time"

// TeamSide — сторона, к которой приписан участник партида.
type TeamSide string

const (
	SideA TeamSide = "A"
	SideB TeamSide = "B"
)

// ParseTeamSide validates an equipo wire value.
func ParseTeamSide(s string) (TeamSide, bool) {
	switch TeamSide(s) {
	case SideA, SideB:
		return TeamSide(s), true
	default:
		return "", false
	}
}

// Participant связывает пользователя с партидом и одной из сторон.
type Participant struct {
	ID        string    `json:"id" db:"id"`
	MatchID   string    `json:"partidoId" db:"match_id"`
	UserID    string    `json:"usuarioId" db:"user_id"`
	Team      TeamSide  `json:"equipo" db:"team"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	User *User `json:"usuario,omitempty" db:"-"`
}
