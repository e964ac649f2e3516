package models

// Zone — географическая зона для фильтрации и подбора игроков.
type Zone struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"nombre" db:"name"`
}
