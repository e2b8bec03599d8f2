package service

import (
	"github.com/google/uuid"

	"sketch_party/internal/models"
	"sketch_party/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(user *models.User) error {
	return s.userRepo.Create(user)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

// CreateGuest 建立一個免密碼的訪客身分，用戶名帶上隨機後綴避免撞名
func (s *UserService) CreateGuest(displayName string) (*models.User, error) {
	user := &models.User{
		Username: displayName + "#" + uuid.NewString()[:8],
		Guest:    true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
