package models

import (
	"time"

	"gorm.io/gorm"
)

// Room 表示一個遊戲房間
type Room struct {
	gorm.Model
	Code          string      `gorm:"size:6;uniqueIndex;not null" json:"code"` // 房間代碼，大寫英數字，必須唯一
	HostID        uint        `json:"host_id"`                                 // 房主的 Player ID
	Phase         RoomPhase   `gorm:"size:16;not null" json:"phase"`
	CurrentRound  int         `json:"current_round"` // 只有在 lobby 階段才會是 0
	TotalRounds   int         `json:"total_rounds"`
	DrawTime      int         `json:"draw_time"` // 繪畫階段的持續時間（秒）
	VoteTime      int         `json:"vote_time"` // 投票階段的持續時間（秒）
	MaxPlayers    int         `json:"max_players"`
	CurrentPrompt string      `gorm:"size:280" json:"current_prompt"` // 回合進行中才有值
	PhaseDeadline *time.Time  `json:"phase_deadline"`                 // 當前階段的結束時間，lobby/finished 為 null
	ScoringMode   ScoringMode `gorm:"size:16;not null" json:"scoring_mode"`

	Players     []Player     `gorm:"constraint:OnDelete:CASCADE" json:"players,omitempty"`
	Drawings    []Drawing    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UsedPrompts []UsedPrompt `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// RoomPhase 定義房間階段的類型
type RoomPhase string

const (
	PhaseLobby    RoomPhase = "lobby"    // 等待玩家加入
	PhaseDrawing  RoomPhase = "drawing"  // 玩家作畫中
	PhaseGallery  RoomPhase = "gallery"  // 作品公開展示（固定的短暫時間）
	PhaseVoting   RoomPhase = "voting"   // 玩家互評作品
	PhaseResults  RoomPhase = "results"  // 顯示本回合得分
	PhaseFinished RoomPhase = "finished" // 遊戲結束
)

// HasDeadline 回報該階段是否有計時器
func (p RoomPhase) HasDeadline() bool {
	switch p {
	case PhaseDrawing, PhaseGallery, PhaseVoting, PhaseResults:
		return true
	}
	return false
}

// ScoringMode 定義計分方式的類型
type ScoringMode string

const (
	ScoringModeCount  ScoringMode = "count"  // 每票 +1 分
	ScoringModeRating ScoringMode = "rating" // round(平均星數 × 100) 分
)

// Player 表示房間內的一位玩家
type Player struct {
	gorm.Model
	RoomID    uint   `gorm:"index;not null;uniqueIndex:idx_players_room_user" json:"room_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_players_room_user" json:"user_id"` // 對應登入身分，重連時用來找回玩家
	Username  string `gorm:"size:50;not null" json:"username"`
	Color     string `gorm:"size:7" json:"color"` // 顯示顏色，如 #FF8800
	Score     int    `json:"score"`               // 遊戲進行中只增不減
	IsHost    bool   `json:"is_host"`             // 每個房間恰好有一位房主
	Connected bool   `json:"connected"`
}

// UsedPrompt 記錄房間已經出過的題目，換回合時避免重複
type UsedPrompt struct {
	gorm.Model
	RoomID uint   `gorm:"index;not null" json:"room_id"`
	Text   string `gorm:"size:280;not null" json:"text"`
}
