package repository

import (
	"strings"
	"time"

	"sketch_party/internal/models"
	"sketch_party/internal/storage"
)

type RoomRepository interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	FindByCode(code string) (*models.Room, error)
	Update(room *models.Room) error
	Delete(id uint) error
	FindExpired(now time.Time) ([]models.Room, error)
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *roomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByCode 依房間代碼查詢，代碼不分大小寫
func (r *roomRepository) FindByCode(code string) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("code = ?", strings.ToUpper(code)).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Update(room *models.Room) error {
	return r.db.Save(room).Error
}

// Delete 硬刪除房間，讓外鍵的級聯刪除把玩家、作品、投票一併清掉
func (r *roomRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Room{}, id).Error
}

// FindExpired 查詢所有階段期限已過的房間，給週期掃描用
func (r *roomRepository) FindExpired(now time.Time) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Where("phase_deadline IS NOT NULL AND phase_deadline <= ?", now).Find(&rooms).Error
	return rooms, err
}
