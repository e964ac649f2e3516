package models

import (
	"time"
)

// MatchStatus представляет статусы партида, соответствующие ENUM в БД.
// Коды совпадают с тем, что клиент отправляет в cambiar-estado.
type MatchStatus string

const (
	StatusNeedsPlayers MatchStatus = "NECESITAMOS_JUGADORES"
	StatusFormed       MatchStatus = "ARMADO"
	StatusConfirmed    MatchStatus = "CONFIRMADO"
	StatusInProgress   MatchStatus = "EN_JUEGO"
	StatusFinished     MatchStatus = "FINALIZADO"
	StatusCanceled     MatchStatus = "CANCELADO"

	// StatusUnknown is returned for values outside the closed enumeration.
	// It is never stored and never a legal transition target.
	StatusUnknown MatchStatus = "DESCONOCIDO"
)

// ParseMatchStatus maps a wire value onto the closed enumeration.
// Unrecognized values become StatusUnknown instead of passing through.
func ParseMatchStatus(s string) MatchStatus {
	switch MatchStatus(s) {
	case StatusNeedsPlayers, StatusFormed, StatusConfirmed,
		StatusInProgress, StatusFinished, StatusCanceled:
		return MatchStatus(s)
	default:
		return StatusUnknown
	}
}

// IsTerminal reports whether no further membership or status mutation is allowed.
func (s MatchStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCanceled
}

// CanTransitionTo reports whether next is reachable from s in the lifecycle.
// The table includes the automatic edges (NECESITAMOS_JUGADORES -> ARMADO on
// reaching capacity and its reversal on leave); which edges are exposed to
// the organizer is decided by the service layer.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case StatusCanceled:
		return true
	case StatusFormed:
		return s == StatusNeedsPlayers
	case StatusNeedsPlayers:
		return s == StatusFormed
	case StatusConfirmed:
		return s == StatusFormed
	case StatusInProgress:
		return s == StatusConfirmed
	case StatusFinished:
		return s == StatusInProgress
	default:
		return false
	}
}

// MatchResult представляет значение equipoGanador после завершения партида.
type MatchResult string

const (
	ResultTeamA MatchResult = "A"
	ResultTeamB MatchResult = "B"
	ResultDraw  MatchResult = "EMPATE"
)

// ParseMatchResult validates an equipoGanador wire value.
func ParseMatchResult(s string) (MatchResult, bool) {
	switch MatchResult(s) {
	case ResultTeamA, ResultTeamB, ResultDraw:
		return MatchResult(s), true
	default:
		return "", false
	}
}

// MatchmakingStrategy — серверная стратегия подбора игроков после создания партида.
type MatchmakingStrategy string

const (
	StrategyZone    MatchmakingStrategy = "ZONA"
	StrategyLevel   MatchmakingStrategy = "NIVEL"
	StrategyHistory MatchmakingStrategy = "HISTORIAL"
	StrategyOpen    MatchmakingStrategy = "LIBRE"
)

// ParseMatchmakingStrategy validates a tipoEstrategia wire value.
func ParseMatchmakingStrategy(s string) (MatchmakingStrategy, bool) {
	switch MatchmakingStrategy(s) {
	case StrategyZone, StrategyLevel, StrategyHistory, StrategyOpen:
		return MatchmakingStrategy(s), true
	default:
		return "", false
	}
}

// Match представляет партид — запланированное спортивное событие.
type Match struct {
	ID               string              `json:"id" db:"id"`
	SportID          string              `json:"deporteId" db:"sport_id"`
	ZoneID           string              `json:"zonaId" db:"zone_id"`
	OrganizerID      string              `json:"organizadorId" db:"organizer_id"`
	Date             time.Time           `json:"fecha" db:"date"`
	Time             string              `json:"hora" db:"start_time"`
	DurationHours    float64             `json:"duracion" db:"duration_hours"`
	Address          string              `json:"direccion" db:"address"`
	RequiredPlayers  int                 `json:"cantidadJugadores" db:"required_players"`
	ConfirmedPlayers int                 `json:"jugadoresConfirmados" db:"confirmed_players"`
	MinLevel         int                 `json:"nivelMinimo" db:"min_level"`
	MaxLevel         int                 `json:"nivelMaximo" db:"max_level"`
	Strategy         MatchmakingStrategy `json:"tipoEmparejamiento" db:"strategy"`
	Status           MatchStatus         `json:"estado" db:"status"`
	Winner           *MatchResult        `json:"equipoGanador,omitempty" db:"winner"`
	CreatedAt        time.Time           `json:"createdAt" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Sport        *Sport        `json:"deporte,omitempty" db:"-"`
	Zone         *Zone         `json:"zona,omitempty" db:"-"`
	Organizer    *User         `json:"organizador,omitempty" db:"-"`
	Participants []Participant `json:"participantes,omitempty" db:"-"`
}

// StartsAt combines fecha and hora into the scheduled kick-off instant.
// hora is stored as "15:04"; a malformed value falls back to midnight.
func (m *Match) StartsAt() time.Time {
	t, err := time.Parse("15:04", m.Time)
	if err != nil {
		return m.Date
	}
	return time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, m.Date.Location())
}

// HasParticipant reports whether the user already joined the match.
func (m *Match) HasParticipant(userID string) bool {
	for _, p := range m.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the confirmed-player count reached capacity.
func (m *Match) IsFull() bool {
	return m.ConfirmedPlayers >= m.RequiredPlayers
}
