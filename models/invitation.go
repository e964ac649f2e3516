package models

import "time"

// InvitationStatus — статус приглашения, отправленного подбором игроков.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDIENTE"
	InvitationAccepted InvitationStatus = "ACEPTADA"
	InvitationRejected InvitationStatus = "RECHAZADA"
)

// Invitation — приглашение пользователя в партид. Создаётся стратегией
// подбора; принять или отклонить его может только сам приглашённый.
type Invitation struct {
	ID        string           `json:"id" db:"id"`
	MatchID   string           `json:"partidoId" db:"match_id"`
	UserID    string           `json:"usuarioId" db:"user_id"`
	Status    InvitationStatus `json:"estado" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`

	Match *Match `json:"partido,omitempty" db:"-"`
}
