package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sketch_party/internal/service"
)

// RoomHandler 處理房間名冊相關的請求：建立、加入、重連、離開、設定
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// SettingsInput 房間設定的請求結構，省略的欄位沿用預設或現值
type SettingsInput struct {
	TotalRounds int    `json:"total_rounds"`
	DrawTime    int    `json:"draw_time"`
	VoteTime    int    `json:"vote_time"`
	MaxPlayers  int    `json:"max_players"`
	ScoringMode string `json:"scoring_mode"`
}

func (in SettingsInput) toSettings() service.RoomSettings {
	return service.RoomSettings{
		TotalRounds: in.TotalRounds,
		DrawTime:    in.DrawTime,
		VoteTime:    in.VoteTime,
		MaxPlayers:  in.MaxPlayers,
		ScoringMode: in.ScoringMode,
	}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Username string        `json:"username" binding:"required"`
		Settings SettingsInput `json:"settings"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	room, player, err := h.roomService.CreateRoom(userID.(uint), input.Username, input.Settings.toSettings())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room, "player": player})
}

// GetRoom 處理獲取房間訊息的請求，含玩家名冊
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	room, players, err := h.roomService.GetRoom(uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "players": players})
}

// JoinRoom 處理以房間代碼加入的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input struct {
		Code     string `json:"code" binding:"required"`
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	player, err := h.roomService.JoinRoom(input.Code, userID.(uint), input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": player})
}

// Rejoin 處理重連請求，找回既有玩家（分數保留）
func (h *RoomHandler) Rejoin(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	player, room, err := h.roomService.Rejoin(input.Code, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": player, "room": room})
}

// LeaveRoom 處理離開房間的請求
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID, _ := c.Get("userID")
	if err := h.roomService.LeaveRoom(uint(roomID), userID.(uint)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功離開房間"})
}

// UpdateSettings 處理修改房間設定的請求，限房主且限 lobby 階段
func (h *RoomHandler) UpdateSettings(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	var input SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	room, err := h.roomService.UpdateSettings(uint(roomID), userID.(uint), input.toSettings())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// GetRemainingTime 回報當前階段的剩餘秒數
func (h *RoomHandler) GetRemainingTime(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	remaining, err := h.roomService.RemainingTime(uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining_time": remaining})
}
