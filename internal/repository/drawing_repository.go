package repository

import (
	"gorm.io/gorm/clause"

	"sketch_party/internal/models"
	"sketch_party/internal/storage"
)

type DrawingRepository interface {
	// CreateIfAbsent 以「先提交者為準」寫入作品；撞到唯一索引時不覆蓋，
	// 回傳 created=false 表示該玩家本回合已有作品
	CreateIfAbsent(drawing *models.Drawing) (created bool, err error)
	FindByID(id uint) (*models.Drawing, error)
	FindByRoomAndRound(roomID uint, round int) ([]models.Drawing, error)
}

type drawingRepository struct {
	db *storage.PostgresDB
}

func NewDrawingRepository(db *storage.PostgresDB) DrawingRepository {
	return &drawingRepository{db: db}
}

func (r *drawingRepository) CreateIfAbsent(drawing *models.Drawing) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(drawing)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *drawingRepository) FindByID(id uint) (*models.Drawing, error) {
	var drawing models.Drawing
	err := r.db.First(&drawing, id).Error
	if err != nil {
		return nil, err
	}
	return &drawing, nil
}

func (r *drawingRepository) FindByRoomAndRound(roomID uint, round int) ([]models.Drawing, error) {
	var drawings []models.Drawing
	err := r.db.Where("room_id = ? AND round = ?", roomID, round).Order("id asc").Find(&drawings).Error
	return drawings, err
}
