package repositories

import (
	"decision_governance_system/internal/db/models"

	"github.com/go-pg/pg/v10"
)

type userRepository struct {
	repository
}

type UserRepository interface {
	Create(request *models.User) (*models.User, error)
	Update(request *models.User) (*models.User, error)
	GetOneByTelegramID(telegramID int64) (*models.User, error)
	GetOneByTelegramNickname(telegramNickname string) (*models.User, error)
	GetMany() ([]*models.User, error)
}

func NewUserRepository(db *pg.DB) UserRepository {
	return &userRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *userRepository) Create(request *models.User) (*models.User, error) {
	_, err := r.db.Model(request).Insert()
	if err != nil {
		return nil, wrap(err, "failed to insert user")
	}

	user := &models.User{}

	err = r.db.Model(user).
		Where("id = ?", request.ID).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get user")
	}

	return user, nil
}

func (r *userRepository) Update(request *models.User) (*models.User, error) {
	_, err := r.db.Model(request).WherePK().Update()
	if err != nil {
		return nil, wrap(err, "failed to update user")
	}

	user := &models.User{}

	err = r.db.Model(user).
		Where("id = ?", request.ID).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get user")
	}

	return user, nil
}

func (r *userRepository) GetOneByTelegramID(telegramID int64) (*models.User, error) {
	user := &models.User{}

	err := r.db.Model(user).
		Where("telegram_id = ?", telegramID).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get user by telegram id")
	}

	return user, nil
}

func (r *userRepository) GetOneByTelegramNickname(telegramNickname string) (*models.User, error) {
	user := &models.User{}

	err := r.db.Model(user).
		Where("telegram_nickname = ?", telegramNickname).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get user by telegram nickname")
	}

	return user, nil
}

func (r *userRepository) GetMany() ([]*models.User, error) {
	users := make([]*models.User, 0)

	err := r.db.Model(&users).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get users")
	}

	return users, nil
}
