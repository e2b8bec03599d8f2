package service

import (
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sketch_party/internal/models"
	"sketch_party/internal/repository"
	"sketch_party/internal/storage"
	"sketch_party/pkg/config"
)

// 測試用的記憶體資料庫，單一連接讓交易序列化，外鍵開啟讓級聯刪除生效
func newTestDB(t *testing.T) *storage.PostgresDB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)

	db := &storage.PostgresDB{DB: gdb}
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.Player{},
		&models.Drawing{}, &models.Vote{}, &models.UsedPrompt{},
	))
	return db
}

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		GallerySeconds: 8,
		ResultsSeconds: 10,
		TickInterval:   2,
		MaxPlayers:     8,
		ScoringMode:    "rating",
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type testEnv struct {
	db    *storage.PostgresDB
	repos *repository.Repositories
	room  *RoomService
	game  *GameService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	repos := repository.NewRepositories(db)
	log := quietLogger()
	cfg := testGameConfig()
	ws := NewWebSocketManager(nil, log)

	return &testEnv{
		db:    db,
		repos: repos,
		room:  NewRoomService(repos.Room, repos.Player, ws, cfg, log),
		game:  NewGameService(db, repos, NewPromptPool(nil), ws, cfg, log),
	}
}

// startedRoom 建一個已開始的房間：n 位玩家，回傳房間與依加入順序排列的玩家
func (e *testEnv) startedRoom(t *testing.T, n, totalRounds int) (*models.Room, []models.Player) {
	t.Helper()

	settings := RoomSettings{TotalRounds: totalRounds, DrawTime: 60, VoteTime: 30}
	room, _, err := e.room.CreateRoom(1, "host", settings)
	require.NoError(t, err)

	for i := 2; i <= n; i++ {
		_, err := e.room.JoinRoom(room.Code, uint(i), "player")
		require.NoError(t, err)
	}

	_, err = e.game.StartGame(room.ID, 1)
	require.NoError(t, err)

	fresh, err := e.repos.Room.FindByID(room.ID)
	require.NoError(t, err)
	players, err := e.repos.Player.FindByRoom(room.ID)
	require.NoError(t, err)
	return fresh, players
}

// expireDeadline 把房間的階段期限改成過去，模擬時間流逝
func (e *testEnv) expireDeadline(t *testing.T, roomID uint) {
	t.Helper()
	past := time.Now().Add(-2 * time.Second)
	require.NoError(t, e.db.Model(&models.Room{}).
		Where("id = ?", roomID).Update("phase_deadline", past).Error)
}

// advanceTo 反覆讓期限過期並推進，直到房間到達目標階段
func (e *testEnv) advanceTo(t *testing.T, roomID uint, target models.RoomPhase) *models.Room {
	t.Helper()
	for i := 0; i < 10; i++ {
		room, err := e.repos.Room.FindByID(roomID)
		require.NoError(t, err)
		if room.Phase == target {
			return room
		}
		e.expireDeadline(t, roomID)
		_, err = e.game.Advance(roomID)
		require.NoError(t, err)
	}
	t.Fatalf("room never reached phase %s", target)
	return nil
}
