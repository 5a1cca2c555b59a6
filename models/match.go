package models

// Match is one best-of-three contest between two players.
// WinnerID is set if and only if Status is MatchStatusFinished.
type Match struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Status      MatchStatus `gorm:"type:varchar(16);index;not null" json:"estado"`
	PlayerOneID uint        `gorm:"index;not null" json:"jugador1_id"`
	PlayerTwoID uint        `gorm:"index;not null" json:"jugador2_id"`
	WinnerID    *uint       `gorm:"index" json:"ganador_id"`

	PlayerOne Player  `gorm:"foreignKey:PlayerOneID" json:"-"`
	PlayerTwo Player  `gorm:"foreignKey:PlayerTwoID" json:"-"`
	Winner    *Player `gorm:"foreignKey:WinnerID" json:"ganador,omitempty"`

	Timestamps
}

func (Match) TableName() string {
	return "matches"
}

// HasPlayer reports whether playerID is one of the two participants.
func (m *Match) HasPlayer(playerID uint) bool {
	return playerID != 0 && (playerID == m.PlayerOneID || playerID == m.PlayerTwoID)
}
