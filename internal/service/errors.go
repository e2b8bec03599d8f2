package service

import "errors"

// 可預期的業務錯誤，handler 據此對應 HTTP 狀態碼與訊息
var (
	ErrRoomNotFound     = errors.New("房間不存在")
	ErrGameInProgress   = errors.New("遊戲已經開始，無法加入")
	ErrRoomFull         = errors.New("房間人數已滿")
	ErrNotAParticipant  = errors.New("不是房間內的玩家")
	ErrUseJoin          = errors.New("尚未加入此房間，請改用加入流程") // Rejoin 在 lobby 階段找不到玩家時回傳
	ErrNotHost          = errors.New("只有房主可以執行此操作")
	ErrNotEnoughPlayers = errors.New("至少需要兩位玩家才能開始")
	ErrWrongPhase       = errors.New("目前階段不允許此操作")
	ErrWrongRound       = errors.New("回合不符")
	ErrSelfVote         = errors.New("不能評分自己的作品")
	ErrAlreadyVoted     = errors.New("已經評分過這張作品")
	ErrBadRating        = errors.New("評分必須介於 0 到 5 之間")
	ErrDrawingNotFound  = errors.New("作品不存在")
	ErrEmptyDrawing     = errors.New("作品內容不可為空")
	ErrBadSettings      = errors.New("無效的房間設定")
	ErrCodeGenExhausted = errors.New("無法產生未使用的房間代碼")
)
