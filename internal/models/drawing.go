package models

import (
	"gorm.io/gorm"
)

// Drawing 表示玩家在某一回合提交的作品
// (RoomID, PlayerID, Round) 的唯一索引保證每人每回合至多一張
type Drawing struct {
	gorm.Model
	RoomID    uint   `gorm:"index;not null;uniqueIndex:idx_drawings_room_player_round" json:"room_id"`
	PlayerID  uint   `gorm:"not null;uniqueIndex:idx_drawings_room_player_round" json:"player_id"`
	Round     int    `gorm:"not null;uniqueIndex:idx_drawings_room_player_round" json:"round"`
	ImageData []byte `gorm:"not null" json:"image_data"`

	// 衍生的統計值，由投票時從 Vote 資料重新計算，不做就地遞增
	VoteCount int `json:"vote_count"`
	RatingSum int `json:"rating_sum"`

	Votes []Vote `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Vote 表示一位玩家對一張作品的評分
// (DrawingID, VoterID) 的唯一索引保證同一人不能重複評分
type Vote struct {
	gorm.Model
	DrawingID uint `gorm:"index;not null;uniqueIndex:idx_votes_drawing_voter" json:"drawing_id"`
	VoterID   uint `gorm:"not null;uniqueIndex:idx_votes_drawing_voter" json:"voter_id"` // 投票者的 Player ID
	RoomID    uint `gorm:"index;not null" json:"room_id"`
	Round     int  `gorm:"not null" json:"round"`
	Rating    int  `gorm:"not null" json:"rating"` // 0 到 5 星
}
