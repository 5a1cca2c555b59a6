package models

import "time"

// Round is a single exchange within a Match. Outcome is from the perspective
// of PlayerID. Rounds are immutable once written.
type Round struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchID      uint    `gorm:"index;not null" json:"partida_id"`
	PlayerID     uint    `gorm:"index;not null" json:"jugador_id"`
	Move         Move    `gorm:"type:varchar(16);index;not null" json:"tipo"`
	OpponentMove Move    `gorm:"type:varchar(16);not null" json:"tipo_rival"`
	Outcome      Outcome `gorm:"type:varchar(16);index;not null" json:"resultado"`

	Match  Match  `gorm:"foreignKey:MatchID" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID" json:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Round) TableName() string {
	return "rounds"
}

// RoundsPerMatch is the number of rounds played before a match is concluded.
const RoundsPerMatch = 3
