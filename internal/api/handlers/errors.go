package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sketch_party/internal/service"
)

// respondError 把業務錯誤對應到 HTTP 狀態碼
// 非預期的錯誤一律回 500，細節交給日誌
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound), errors.Is(err, service.ErrDrawingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotHost), errors.Is(err, service.ErrNotAParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGameInProgress),
		errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPhase),
		errors.Is(err, service.ErrWrongRound),
		errors.Is(err, service.ErrSelfVote),
		errors.Is(err, service.ErrBadRating),
		errors.Is(err, service.ErrBadSettings),
		errors.Is(err, service.ErrEmptyDrawing),
		errors.Is(err, service.ErrNotEnoughPlayers),
		errors.Is(err, service.ErrUseJoin):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "伺服器發生錯誤"})
	}
}
