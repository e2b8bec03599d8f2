package service

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"sketch_party/internal/models"
)

// ratingScale 把 0~5 星的平均轉成分數，平均 4 星 = 400 分
const ratingScale = 100

// scoreRound 把本回合的投票結算成每位玩家的分數增量，在呼叫端的交易內執行
// 沒有得票的作品也會套用增量 0，讓每位玩家的分數更新都可被觀察
// 作品擁有者已離開房間時靜默跳過，不讓整次結算失敗
func (s *GameService) scoreRound(tx *gorm.DB, room *models.Room) error {
	var drawings []models.Drawing
	if err := tx.Where("room_id = ? AND round = ?", room.ID, room.CurrentRound).Find(&drawings).Error; err != nil {
		return err
	}

	for i := range drawings {
		drawing := &drawings[i]

		var votes []models.Vote
		if err := tx.Where("drawing_id = ?", drawing.ID).Find(&votes).Error; err != nil {
			return err
		}

		// 統計值一律從投票資料重算，不信任累加欄位
		sum := 0
		for _, v := range votes {
			sum += v.Rating
		}
		if err := tx.Model(drawing).Updates(map[string]interface{}{
			"vote_count": len(votes),
			"rating_sum": sum,
		}).Error; err != nil {
			return err
		}

		delta := scoreDelta(room.ScoringMode, votes)

		var owner models.Player
		err := tx.First(&owner, drawing.PlayerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&owner).
			Update("score", gorm.Expr("score + ?", delta)).Error; err != nil {
			return err
		}
	}

	return nil
}

// scoreDelta 依計分模式把一張作品的票數換算成分數增量
func scoreDelta(mode models.ScoringMode, votes []models.Vote) int {
	if len(votes) == 0 {
		return 0
	}
	switch mode {
	case models.ScoringModeCount:
		return len(votes)
	case models.ScoringModeRating:
		sum := 0
		for _, v := range votes {
			sum += v.Rating
		}
		mean := float64(sum) / float64(len(votes))
		return int(math.Round(mean * ratingScale))
	default:
		return 0
	}
}
