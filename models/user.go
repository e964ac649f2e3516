package models

import "time"

// Уровни игроков: фиксированный словарь из трёх значений.
const (
	LevelBeginner     = 1 // Principiante
	LevelIntermediate = 2 // Intermedio
	LevelAdvanced     = 3 // Avanzado
)

// IsValidLevel reports whether l belongs to the 1..3 vocabulary.
func IsValidLevel(l int) bool {
	return l >= LevelBeginner && l <= LevelAdvanced
}

type User struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"nombre" db:"name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Level         int       `json:"nivel" db:"level"`
	ZoneID        *string   `json:"zonaId,omitempty" db:"zone_id"`
	SportID       *string   `json:"deporteId,omitempty" db:"sport_id"`
	FirebaseToken *string   `json:"-" db:"firebase_token"`
	AvatarKey     *string   `json:"-" db:"avatar_key"`
	AvatarURL     *string   `json:"avatarUrl,omitempty" db:"-"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
