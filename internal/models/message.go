package models

import (
	"time"
)

// Message 代表一則透過 WebSocket 廣播給房間的事件
type Message struct {
	Type      string      `json:"type"`
	RoomID    uint        `json:"room_id"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// 事件類型
const (
	EventPhaseChanged     = "phase_changed"
	EventPlayerJoined     = "player_joined"
	EventPlayerLeft       = "player_left"
	EventHostChanged      = "host_changed"
	EventSettingsChanged  = "settings_changed"
	EventDrawingSubmitted = "drawing_submitted"
	EventVoteCast         = "vote_cast"
)

// NewRoomEvent 創建一則房間事件
func NewRoomEvent(eventType string, roomID uint, payload interface{}) *Message {
	return &Message{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
