package service

import (
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"sketch_party/internal/repository"
	"sketch_party/internal/storage"
	"sketch_party/pkg/config"
)

type Services struct {
	User             *UserService
	Room             *RoomService
	Game             *GameService
	Driver           *PhaseDriver
	WebSocketManager *WebSocketManager
}

func NewServices(db *storage.PostgresDB, repos *repository.Repositories,
	cfg *config.Config, rdb *redis.Client, log *logrus.Logger) *Services {
	wsManager := NewWebSocketManager(rdb, log)
	prompts := NewPromptPool(cfg.Game.Prompts)

	userService := NewUserService(repos.User)
	roomService := NewRoomService(repos.Room, repos.Player, wsManager, cfg.Game, log)
	gameService := NewGameService(db, repos, prompts, wsManager, cfg.Game, log)
	driver := NewPhaseDriver(gameService, cfg.Game.TickInterval, log)

	return &Services{
		User:             userService,
		Room:             roomService,
		Game:             gameService,
		Driver:           driver,
		WebSocketManager: wsManager,
	}
}
