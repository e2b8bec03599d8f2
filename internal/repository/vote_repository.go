package repository

import (
	"sketch_party/internal/models"
	"sketch_party/internal/storage"
)

type VoteRepository interface {
	// CountByDrawingAndVoter 查這位玩家是否已經投過這張作品，
	// 給投票前的快速檢查用；唯一索引仍是最終的防線
	CountByDrawingAndVoter(drawingID, voterID uint) (int64, error)
}

type voteRepository struct {
	db *storage.PostgresDB
}

func NewVoteRepository(db *storage.PostgresDB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) CountByDrawingAndVoter(drawingID, voterID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("drawing_id = ? AND voter_id = ?", drawingID, voterID).Count(&count).Error
	return count, err
}
