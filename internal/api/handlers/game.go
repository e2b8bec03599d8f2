package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sketch_party/internal/service"
)

// GameHandler 處理遊戲進行中的請求：開始、提交作品、評分、階段推進
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler 創建一個新的 GameHandler 實例
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// StartGame 處理開始遊戲的請求，限房主
func (h *GameHandler) StartGame(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID, _ := c.Get("userID")
	room, err := h.gameService.StartGame(uint(roomID), userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// SubmitDrawing 處理作品提交，重複提交視為成功
func (h *GameHandler) SubmitDrawing(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	var input struct {
		Round int    `json:"round" binding:"required"`
		Image string `json:"image" binding:"required"` // base64 編碼的圖片
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := base64.StdEncoding.DecodeString(input.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的圖片資料"})
		return
	}

	userID, _ := c.Get("userID")
	drawing, already, err := h.gameService.SubmitDrawing(uint(roomID), userID.(uint), input.Round, image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drawing_id": drawing.ID, "already_submitted": already})
}

// CastVote 處理對作品的評分
func (h *GameHandler) CastVote(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	var input struct {
		DrawingID uint `json:"drawing_id" binding:"required"`
		Rating    int  `json:"rating"` // 0 分是合法評分，不能標 required
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	drawing, err := h.gameService.CastVote(uint(roomID), userID.(uint), input.DrawingID, input.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drawing_id": drawing.ID,
		"vote_count": drawing.VoteCount,
		"rating_sum": drawing.RatingSum,
	})
}

// Advance 處理客戶端的計時完成提示，期限未到或已被推進時回報 advanced=false
func (h *GameHandler) Advance(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	transition, err := h.gameService.Advance(uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	if transition == nil {
		c.JSON(http.StatusOK, gin.H{"advanced": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"advanced": true, "transition": transition})
}

// RoundDrawings 回傳某回合的所有作品
func (h *GameHandler) RoundDrawings(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	round, err := strconv.Atoi(c.Param("round"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的回合"})
		return
	}

	drawings, err := h.gameService.RoundDrawings(uint(roomID), round)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, drawings)
}
