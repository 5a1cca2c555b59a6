package models

// Player is a participant, human or machine. Players are created on first
// reference by name and never deleted.
type Player struct {
	ID     uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string     `gorm:"size:255;uniqueIndex;not null" json:"nombre"`
	Handle string     `gorm:"size:255;uniqueIndex;not null" json:"handle"` // slug of Name, used in URLs
	Kind   PlayerKind `gorm:"type:varchar(16);not null" json:"tipo"`
	Score  int        `gorm:"default:0;not null;check:score >= 0" json:"puntos"`

	Timestamps
}

func (Player) TableName() string {
	return "players"
}
