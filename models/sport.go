package models

// Sport представляет вид спорта.
type Sport struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"nombre" db:"name"`

	IconKey *string `json:"-" db:"icon_key"`
	IconURL *string `json:"iconoUrl,omitempty" db:"-"`
}
