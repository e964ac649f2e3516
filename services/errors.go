package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidLevel     = errors.New("level must be between 1 and 3")
	ErrInvalidLevelBand = errors.New("nivelMinimo must not exceed nivelMaximo")
	ErrInvalidCapacity  = errors.New("cantidadJugadores must be positive")
	ErrInvalidStrategy  = errors.New("invalid matchmaking strategy")
	ErrInvalidTeamSide  = errors.New("equipo must be A or B")
	ErrInvalidWinner    = errors.New("equipoGanador must be A, B or EMPATE")

	// Ошибки жизненного цикла партида
	ErrMatchInvalidStatus           = errors.New("invalid match status provided")
	ErrMatchInvalidStatusTransition = errors.New("invalid match status transition")
	ErrMatchTerminal                = errors.New("match is finished or canceled and can no longer change")
	ErrMatchNotInProgress           = errors.New("match is not in progress")
	ErrMatchUpdateNotAllowed        = errors.New("match can no longer be edited")

	// Ошибки членства
	ErrMatchFull           = errors.New("match is already full")
	ErrAlreadyJoined       = errors.New("user already joined this match")
	ErrMatchNotJoinable    = errors.New("match is not accepting players")
	ErrNotJoined           = errors.New("user has not joined this match")
	ErrOrganizerCannotJoin = errors.New("the organizer cannot join their own match as a player")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrNotOrganizer           = errors.New("only the organizer can perform this action")

	// Ошибки приглашений
	ErrInvitationNotPending = errors.New("invitation was already answered")

	// Ошибки, специфичные для сущностей
	ErrMatchNotFound       = errors.New("match not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrSportNotFound       = errors.New("sport not found")
	ErrZoneNotFound        = errors.New("zone not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvitationNotFound  = errors.New("invitation not found")
)
