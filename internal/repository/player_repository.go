package repository

import (
	"sketch_party/internal/models"
	"sketch_party/internal/storage"
)

type PlayerRepository interface {
	Create(player *models.Player) error
	FindByID(id uint) (*models.Player, error)
	FindByRoomAndUser(roomID, userID uint) (*models.Player, error)
	FindByRoom(roomID uint) ([]models.Player, error)
	CountByRoom(roomID uint) (int64, error)
	Update(player *models.Player) error
	Delete(id uint) error
}

type playerRepository struct {
	db *storage.PostgresDB
}

func NewPlayerRepository(db *storage.PostgresDB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(player *models.Player) error {
	return r.db.Create(player).Error
}

func (r *playerRepository) FindByID(id uint) (*models.Player, error) {
	var player models.Player
	err := r.db.First(&player, id).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// FindByRoomAndUser 依身分查詢玩家，重連時用
func (r *playerRepository) FindByRoomAndUser(roomID, userID uint) (*models.Player, error) {
	var player models.Player
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&player).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// FindByRoom 查詢房間內所有玩家，依加入順序排列
func (r *playerRepository) FindByRoom(roomID uint) ([]models.Player, error) {
	var players []models.Player
	err := r.db.Where("room_id = ?", roomID).Order("created_at asc, id asc").Find(&players).Error
	return players, err
}

func (r *playerRepository) CountByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Player{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}

func (r *playerRepository) Update(player *models.Player) error {
	return r.db.Save(player).Error
}

// Delete 硬刪除玩家，釋放 (room, user) 的唯一索引讓同身分之後能重新加入
func (r *playerRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Player{}, id).Error
}
