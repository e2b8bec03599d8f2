package repository

import "sketch_party/internal/storage"

type Repositories struct {
	User    UserRepository
	Room    RoomRepository
	Player  PlayerRepository
	Drawing DrawingRepository
	Vote    VoteRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Room:    NewRoomRepository(db),
		Player:  NewPlayerRepository(db),
		Drawing: NewDrawingRepository(db),
		Vote:    NewVoteRepository(db),
	}
}
