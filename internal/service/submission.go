package service

import (
	"errors"

	"gorm.io/gorm"

	"sketch_party/internal/models"
)

// SubmitDrawing 收下玩家本回合的作品
// 每人每回合至多一張；重複提交視為成功（以第一次提交為準），回傳 already=true
func (s *GameService) SubmitDrawing(roomID, userID uint, round int, image []byte) (drawing *models.Drawing, already bool, err error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrRoomNotFound
		}
		return nil, false, err
	}

	player, err := s.playerRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotAParticipant
		}
		return nil, false, err
	}

	if room.Phase != models.PhaseDrawing {
		return nil, false, ErrWrongPhase
	}
	if round != room.CurrentRound {
		return nil, false, ErrWrongRound
	}
	if len(image) == 0 {
		return nil, false, ErrEmptyDrawing
	}

	d := &models.Drawing{
		RoomID:    roomID,
		PlayerID:  player.ID,
		Round:     round,
		ImageData: image,
	}
	created, err := s.drawingRepo.CreateIfAbsent(d)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// 已有作品，冪等地回傳既有那張
		existing, err := s.findDrawing(roomID, player.ID, round)
		if err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}

	// 只廣播作品的出處，不帶圖片本體
	s.wsManager.BroadcastEvent(roomID, models.EventDrawingSubmitted, map[string]interface{}{
		"player_id": player.ID, "round": round,
	})
	return d, false, nil
}

func (s *GameService) findDrawing(roomID, playerID uint, round int) (*models.Drawing, error) {
	drawings, err := s.drawingRepo.FindByRoomAndRound(roomID, round)
	if err != nil {
		return nil, err
	}
	for i := range drawings {
		if drawings[i].PlayerID == playerID {
			return &drawings[i], nil
		}
	}
	return nil, ErrDrawingNotFound
}

// CastVote 收下一票。自評一律拒絕；同一人對同一作品只能投一次，
// 重複投票回報 ErrAlreadyVoted 讓呼叫端顯示友善訊息
func (s *GameService) CastVote(roomID, userID, drawingID uint, rating int) (*models.Drawing, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrBadRating
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	voter, err := s.playerRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAParticipant
		}
		return nil, err
	}

	drawing, err := s.drawingRepo.FindByID(drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, err
	}
	if drawing.RoomID != roomID {
		return nil, ErrDrawingNotFound
	}

	// 自己的作品不能評分，不論現在是什麼階段
	if drawing.PlayerID == voter.ID {
		return nil, ErrSelfVote
	}

	if room.Phase != models.PhaseVoting {
		return nil, ErrWrongPhase
	}
	if drawing.Round != room.CurrentRound {
		return nil, ErrWrongRound
	}

	// 先查一次是否已投過，讓重複投票不用等到唯一索引才被擋下
	voted, err := s.voteRepo.CountByDrawingAndVoter(drawingID, voter.ID)
	if err != nil {
		return nil, err
	}
	if voted > 0 {
		return nil, ErrAlreadyVoted
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		vote := &models.Vote{
			DrawingID: drawingID,
			VoterID:   voter.ID,
			RoomID:    roomID,
			Round:     drawing.Round,
			Rating:    rating,
		}
		if err := tx.Create(vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		// 統計值在同一道 UPDATE 裡用子查詢重算：
		// 先讀後寫在已提交讀的隔離層級下會蓋掉並行交易剛寫入的票
		return tx.Model(&models.Drawing{}).Where("id = ?", drawingID).
			Updates(map[string]interface{}{
				"vote_count": gorm.Expr("(SELECT count(*) FROM votes WHERE drawing_id = ? AND deleted_at IS NULL)", drawingID),
				"rating_sum": gorm.Expr("(SELECT coalesce(sum(rating), 0) FROM votes WHERE drawing_id = ? AND deleted_at IS NULL)", drawingID),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.wsManager.BroadcastEvent(roomID, models.EventVoteCast, map[string]interface{}{
		"drawing_id": drawingID, "voter_id": voter.ID,
	})

	return s.drawingRepo.FindByID(drawingID)
}

// RoundDrawings 回傳某回合的所有作品，展示與投票階段的客戶端資料來源
func (s *GameService) RoundDrawings(roomID uint, round int) ([]models.Drawing, error) {
	if _, err := s.roomRepo.FindByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.drawingRepo.FindByRoomAndRound(roomID, round)
}
