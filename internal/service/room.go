package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sketch_party/internal/models"
	"sketch_party/internal/repository"
	"sketch_party/pkg/config"
)

// 房間代碼的字元集，排除容易混淆的 0/O/1/I
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 6
const codeGenAttempts = 10

// 玩家顯示顏色，依加入順序輪流分配
var playerColors = []string{
	"#E6452F", "#2F80E6", "#27AE60", "#F2C14E",
	"#9B51E0", "#F2789F", "#16C2B8", "#E67E22",
}

// RoomSettings 建立或修改房間時的設定值，零值欄位沿用現有設定
type RoomSettings struct {
	TotalRounds int
	DrawTime    int
	VoteTime    int
	MaxPlayers  int
	ScoringMode string
}

// RoomService 負責房間與玩家名冊：建立、加入、重連、離開
type RoomService struct {
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	wsManager  *WebSocketManager
	cfg        config.GameConfig
	log        *logrus.Logger
}

func NewRoomService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository,
	wsManager *WebSocketManager, cfg config.GameConfig, log *logrus.Logger) *RoomService {
	return &RoomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		wsManager:  wsManager,
		cfg:        cfg,
		log:        log,
	}
}

// CreateRoom 建立新房間並把建立者設為房主
func (s *RoomService) CreateRoom(userID uint, username string, settings RoomSettings) (*models.Room, *models.Player, error) {
	settings = s.fillDefaults(settings)
	if err := validateSettings(settings); err != nil {
		return nil, nil, err
	}

	room, err := s.createWithFreshCode(settings)
	if err != nil {
		return nil, nil, err
	}

	host := &models.Player{
		RoomID:    room.ID,
		UserID:    userID,
		Username:  username,
		Color:     playerColors[0],
		IsHost:    true,
		Connected: true,
	}
	if err := s.playerRepo.Create(host); err != nil {
		return nil, nil, err
	}

	room.HostID = host.ID
	if err := s.roomRepo.Update(room); err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{"room": room.ID, "code": room.Code}).Info("room created")
	return room, host, nil
}

// createWithFreshCode 產生房間代碼並寫入，撞碼時重試
// 代碼產生是機率性的，靠唯一索引做最終防線
func (s *RoomService) createWithFreshCode(settings RoomSettings) (*models.Room, error) {
	for i := 0; i < codeGenAttempts; i++ {
		room := &models.Room{
			Code:        generateCode(),
			Phase:       models.PhaseLobby,
			TotalRounds: settings.TotalRounds,
			DrawTime:    settings.DrawTime,
			VoteTime:    settings.VoteTime,
			MaxPlayers:  settings.MaxPlayers,
			ScoringMode: models.ScoringMode(settings.ScoringMode),
		}
		err := s.roomRepo.Create(room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, ErrCodeGenExhausted
}

func generateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand 失效時整個行程都有問題，直接中止
			panic(err)
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

// JoinRoom 以房間代碼加入，只開放給 lobby 階段的房間
// 同一身分重複加入時直接回傳既有玩家
func (s *RoomService) JoinRoom(code string, userID uint, username string) (*models.Player, error) {
	room, err := s.roomRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if existing, err := s.playerRepo.FindByRoomAndUser(room.ID, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if room.Phase != models.PhaseLobby {
		return nil, ErrGameInProgress
	}

	count, err := s.playerRepo.CountByRoom(room.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(room.MaxPlayers) {
		return nil, ErrRoomFull
	}

	player := &models.Player{
		RoomID:    room.ID,
		UserID:    userID,
		Username:  username,
		Color:     playerColors[count%int64(len(playerColors))],
		Connected: true,
	}
	if err := s.playerRepo.Create(player); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 同身分同時加入，撞到唯一索引時回傳先建立的那筆
			return s.playerRepo.FindByRoomAndUser(room.ID, userID)
		}
		return nil, err
	}

	s.wsManager.BroadcastEvent(room.ID, models.EventPlayerJoined, player)
	return player, nil
}

// Rejoin 重連或重新整理頁面時找回既有玩家
// 在 lobby 階段找不到玩家時回傳 ErrUseJoin，呼叫端應改走 JoinRoom
func (s *RoomService) Rejoin(code string, userID uint) (*models.Player, *models.Room, error) {
	room, err := s.roomRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	player, err := s.playerRepo.FindByRoomAndUser(room.ID, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		if room.Phase == models.PhaseLobby {
			return nil, nil, ErrUseJoin
		}
		// 遊戲進行中，局外人不能加入
		return nil, nil, ErrNotAParticipant
	}

	if !player.Connected {
		player.Connected = true
		if err := s.playerRepo.Update(player); err != nil {
			return nil, nil, err
		}
	}

	return player, room, nil
}

// LeaveRoom 移除玩家
// 房主離開時把房主交給最早加入的剩餘玩家；最後一人離開時整個房間連同子資料刪除
func (s *RoomService) LeaveRoom(roomID, userID uint) error {
	player, err := s.playerRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAParticipant
		}
		return err
	}

	if err := s.playerRepo.Delete(player.ID); err != nil {
		return err
	}

	remaining, err := s.playerRepo.FindByRoom(roomID)
	if err != nil {
		return err
	}

	if len(remaining) == 0 {
		s.log.WithField("room", roomID).Info("room abandoned, deleting")
		return s.roomRepo.Delete(roomID)
	}

	s.wsManager.BroadcastEvent(roomID, models.EventPlayerLeft, player)

	if player.IsHost {
		newHost := remaining[0]
		newHost.IsHost = true
		if err := s.playerRepo.Update(&newHost); err != nil {
			return err
		}
		room, err := s.roomRepo.FindByID(roomID)
		if err != nil {
			return err
		}
		room.HostID = newHost.ID
		if err := s.roomRepo.Update(room); err != nil {
			return err
		}
		s.wsManager.BroadcastEvent(roomID, models.EventHostChanged, newHost)
	}

	return nil
}

// UpdateSettings 修改房間設定，限房主且限 lobby 階段
func (s *RoomService) UpdateSettings(roomID, userID uint, settings RoomSettings) (*models.Room, error) {
	room, _, err := s.requireHost(roomID, userID)
	if err != nil {
		return nil, err
	}

	if room.Phase != models.PhaseLobby {
		return nil, ErrWrongPhase
	}

	// 零值欄位沿用現有設定，有填的欄位和建房時走同一套驗證，
	// 負數之類的錯誤輸入要回報而不是被當成沒填
	merged := RoomSettings{
		TotalRounds: room.TotalRounds,
		DrawTime:    room.DrawTime,
		VoteTime:    room.VoteTime,
		MaxPlayers:  room.MaxPlayers,
		ScoringMode: string(room.ScoringMode),
	}
	if settings.TotalRounds != 0 {
		merged.TotalRounds = settings.TotalRounds
	}
	if settings.DrawTime != 0 {
		merged.DrawTime = settings.DrawTime
	}
	if settings.VoteTime != 0 {
		merged.VoteTime = settings.VoteTime
	}
	if settings.MaxPlayers != 0 {
		merged.MaxPlayers = settings.MaxPlayers
	}
	if settings.ScoringMode != "" {
		merged.ScoringMode = settings.ScoringMode
	}
	if err := validateSettings(merged); err != nil {
		return nil, err
	}

	if merged.MaxPlayers != room.MaxPlayers {
		count, err := s.playerRepo.CountByRoom(room.ID)
		if err != nil {
			return nil, err
		}
		if int64(merged.MaxPlayers) < count {
			return nil, ErrBadSettings
		}
	}

	room.TotalRounds = merged.TotalRounds
	room.DrawTime = merged.DrawTime
	room.VoteTime = merged.VoteTime
	room.MaxPlayers = merged.MaxPlayers
	room.ScoringMode = models.ScoringMode(merged.ScoringMode)

	if err := s.roomRepo.Update(room); err != nil {
		return nil, err
	}

	s.wsManager.BroadcastEvent(room.ID, models.EventSettingsChanged, room)
	return room, nil
}

// GetRoom 取得房間與名冊
func (s *RoomService) GetRoom(roomID uint) (*models.Room, []models.Player, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}
	players, err := s.playerRepo.FindByRoom(roomID)
	if err != nil {
		return nil, nil, err
	}
	return room, players, nil
}

// RemainingTime 回報當前階段的剩餘秒數，沒有計時器的階段回傳 0
func (s *RoomService) RemainingTime(roomID uint) (int, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRoomNotFound
		}
		return 0, err
	}
	if room.PhaseDeadline == nil {
		return 0, nil
	}
	remaining := time.Until(*room.PhaseDeadline)
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining.Seconds()), nil
}

func (s *RoomService) requireHost(roomID, userID uint) (*models.Room, *models.Player, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}
	player, err := s.playerRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotAParticipant
		}
		return nil, nil, err
	}
	if !player.IsHost {
		return nil, nil, ErrNotHost
	}
	return room, player, nil
}

func (s *RoomService) fillDefaults(settings RoomSettings) RoomSettings {
	if settings.TotalRounds == 0 {
		settings.TotalRounds = 3
	}
	if settings.DrawTime == 0 {
		settings.DrawTime = 90
	}
	if settings.VoteTime == 0 {
		settings.VoteTime = 30
	}
	if settings.MaxPlayers == 0 {
		settings.MaxPlayers = s.cfg.MaxPlayers
	}
	if settings.ScoringMode == "" {
		settings.ScoringMode = s.cfg.ScoringMode
	}
	return settings
}

func validateSettings(settings RoomSettings) error {
	if settings.TotalRounds < 1 || settings.DrawTime < 1 || settings.VoteTime < 1 || settings.MaxPlayers < 2 {
		return ErrBadSettings
	}
	mode := models.ScoringMode(settings.ScoringMode)
	if mode != models.ScoringModeCount && mode != models.ScoringModeRating {
		return ErrBadSettings
	}
	return nil
}
