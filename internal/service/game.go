package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sketch_party/internal/models"
	"sketch_party/internal/repository"
	"sketch_party/internal/storage"
	"sketch_party/pkg/config"
)

// errAdvanceRaced 表示別的呼叫端已經先完成了同一次轉換，不是錯誤
var errAdvanceRaced = errors.New("advance raced")

// Transition 描述一次完成的階段轉換
type Transition struct {
	RoomID uint             `json:"room_id"`
	From   models.RoomPhase `json:"from"`
	To     models.RoomPhase `json:"to"`
	Round  int              `json:"round"`
}

// GameService 是階段狀態機的唯一權威：
// 開始遊戲、階段推進、計分、作品與投票的提交把關都在這裡
type GameService struct {
	db          *storage.PostgresDB
	roomRepo    repository.RoomRepository
	playerRepo  repository.PlayerRepository
	drawingRepo repository.DrawingRepository
	voteRepo    repository.VoteRepository
	prompts     *PromptPool
	wsManager   *WebSocketManager
	cfg         config.GameConfig
	log         *logrus.Logger
}

func NewGameService(db *storage.PostgresDB, repos *repository.Repositories, prompts *PromptPool,
	wsManager *WebSocketManager, cfg config.GameConfig, log *logrus.Logger) *GameService {
	return &GameService{
		db:          db,
		roomRepo:    repos.Room,
		playerRepo:  repos.Player,
		drawingRepo: repos.Drawing,
		voteRepo:    repos.Vote,
		prompts:     prompts,
		wsManager:   wsManager,
		cfg:         cfg,
		log:         log,
	}
}

// StartGame 由房主把房間從 lobby 帶入第一回合
// 以 phase='lobby' 為條件的更新擋住同時按開始的重複觸發
func (s *GameService) StartGame(roomID, userID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	player, err := s.playerRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAParticipant
		}
		return nil, err
	}
	if !player.IsHost {
		return nil, ErrNotHost
	}

	if room.Phase != models.PhaseLobby {
		return nil, ErrWrongPhase
	}

	count, err := s.playerRepo.CountByRoom(roomID)
	if err != nil {
		return nil, err
	}
	if count < 2 {
		return nil, ErrNotEnoughPlayers
	}

	prompt := s.prompts.Pick(nil)
	deadline := time.Now().Add(time.Duration(room.DrawTime) * time.Second)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Room{}).
			Where("id = ? AND phase = ?", roomID, models.PhaseLobby).
			Updates(map[string]interface{}{
				"phase":          models.PhaseDrawing,
				"current_round":  1,
				"current_prompt": prompt,
				"phase_deadline": deadline,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWrongPhase
		}
		return tx.Create(&models.UsedPrompt{RoomID: roomID, Text: prompt}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"room": roomID, "prompt": prompt}).Info("game started")
	s.wsManager.BroadcastEvent(roomID, models.EventPhaseChanged, Transition{
		RoomID: roomID, From: models.PhaseLobby, To: models.PhaseDrawing, Round: 1,
	})

	return s.roomRepo.FindByID(roomID)
}

// Advance 檢查房間的階段期限，期限已過就推進到下一個階段
// 期限未到、沒有計時器或已被別人推進時回傳 (nil, nil)，可以放心重複呼叫
func (s *GameService) Advance(roomID uint) (*Transition, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.advance(room)
}

// AdvanceExpired 掃描所有期限已過的房間並逐一推進，給週期驅動器用
// 單一房間推進失敗只記錄，不中斷整個掃描
func (s *GameService) AdvanceExpired() []Transition {
	rooms, err := s.roomRepo.FindExpired(time.Now())
	if err != nil {
		s.log.WithError(err).Error("expired room scan failed")
		return nil
	}

	var transitions []Transition
	for i := range rooms {
		tr, err := s.advance(&rooms[i])
		if err != nil {
			s.log.WithError(err).WithField("room", rooms[i].ID).Error("advance failed")
			continue
		}
		if tr != nil {
			transitions = append(transitions, *tr)
		}
	}
	return transitions
}

func (s *GameService) advance(room *models.Room) (*Transition, error) {
	// 前置條件不符時一律視為 NoOp：lobby/finished 沒有轉換，期限未到先不動
	if !room.Phase.HasDeadline() || room.PhaseDeadline == nil {
		return nil, nil
	}
	now := time.Now()
	if now.Before(*room.PhaseDeadline) {
		return nil, nil
	}

	next, ok := nextPhase(room)
	if !ok {
		return nil, nil
	}

	tr := &Transition{RoomID: room.ID, From: room.Phase, To: next, Round: room.CurrentRound}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"phase": next}

		switch next {
		case models.PhaseGallery:
			updates["phase_deadline"] = now.Add(time.Duration(s.cfg.GallerySeconds) * time.Second)
		case models.PhaseVoting:
			updates["phase_deadline"] = now.Add(time.Duration(room.VoteTime) * time.Second)
		case models.PhaseResults:
			updates["phase_deadline"] = now.Add(time.Duration(s.cfg.ResultsSeconds) * time.Second)
		case models.PhaseDrawing:
			prompt, err := s.pickPrompt(tx, room.ID)
			if err != nil {
				return err
			}
			updates["current_round"] = room.CurrentRound + 1
			updates["current_prompt"] = prompt
			updates["phase_deadline"] = now.Add(time.Duration(room.DrawTime) * time.Second)
			tr.Round = room.CurrentRound + 1
		case models.PhaseFinished:
			updates["phase_deadline"] = nil
			updates["current_prompt"] = ""
		}

		// 以舊的 phase+deadline 作為條件的比較交換更新：
		// 同一次期限跨越只有一個呼叫端會成功，其餘回報 raced
		res := tx.Model(&models.Room{}).
			Where("id = ? AND phase = ? AND phase_deadline = ?", room.ID, room.Phase, *room.PhaseDeadline).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAdvanceRaced
		}

		// 計分和階段寫入同一筆交易：計分失敗整個轉換回滾，
		// 期限仍然是過去式，下一輪掃描自然重試
		if next == models.PhaseResults {
			if err := s.scoreRound(tx, room); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errAdvanceRaced) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"room": room.ID, "from": tr.From, "to": tr.To, "round": tr.Round,
		"subscribers": s.wsManager.RoomClientCount(room.ID),
	}).Info("phase advanced")
	s.wsManager.BroadcastEvent(room.ID, models.EventPhaseChanged, *tr)

	return tr, nil
}

// nextPhase 是狀態機的轉換表，只依賴房間自身的欄位
func nextPhase(room *models.Room) (models.RoomPhase, bool) {
	switch room.Phase {
	case models.PhaseDrawing:
		return models.PhaseGallery, true
	case models.PhaseGallery:
		return models.PhaseVoting, true
	case models.PhaseVoting:
		return models.PhaseResults, true
	case models.PhaseResults:
		if room.CurrentRound < room.TotalRounds {
			return models.PhaseDrawing, true
		}
		return models.PhaseFinished, true
	default:
		// 外部狀態可能過期，未定義的階段當成終態處理
		return "", false
	}
}

// pickPrompt 在交易內抽出下一題並記入已用題目
func (s *GameService) pickPrompt(tx *gorm.DB, roomID uint) (string, error) {
	var used []models.UsedPrompt
	if err := tx.Where("room_id = ?", roomID).Find(&used).Error; err != nil {
		return "", err
	}
	usedSet := make(map[string]bool, len(used))
	for _, u := range used {
		usedSet[u.Text] = true
	}

	prompt := s.prompts.Pick(usedSet)
	if err := tx.Create(&models.UsedPrompt{RoomID: roomID, Text: prompt}).Error; err != nil {
		return "", err
	}
	return prompt, nil
}
