package repositories

import (
	"decision_governance_system/internal/db/models"

	"github.com/go-pg/pg/v10"
)

type workspaceRepository struct {
	repository
}

type WorkspaceRepository interface {
	Create(request *models.Workspace) (*models.Workspace, error)
	GetOne(workspaceID string) (*models.Workspace, error)
	GetOneByTelegramChatID(telegramChatID int64) (*models.Workspace, error)
	GetMany() ([]*models.Workspace, error)
}

func NewWorkspaceRepository(db *pg.DB) WorkspaceRepository {
	return &workspaceRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *workspaceRepository) Create(request *models.Workspace) (*models.Workspace, error) {
	_, err := r.db.Model(request).Insert()
	if err != nil {
		return nil, wrap(err, "failed to insert workspace")
	}

	return r.GetOne(request.ID)
}

func (r *workspaceRepository) GetOne(workspaceID string) (*models.Workspace, error) {
	workspace := &models.Workspace{}

	err := r.db.Model(workspace).
		Where("id = ?", workspaceID).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get workspace")
	}

	return workspace, nil
}

func (r *workspaceRepository) GetOneByTelegramChatID(telegramChatID int64) (*models.Workspace, error) {
	workspace := &models.Workspace{}

	err := r.db.Model(workspace).
		Where("telegram_chat_id = ?", telegramChatID).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get workspace by telegram chat id")
	}

	return workspace, nil
}

func (r *workspaceRepository) GetMany() ([]*models.Workspace, error) {
	workspaces := make([]*models.Workspace, 0)

	err := r.db.Model(&workspaces).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get workspaces")
	}

	return workspaces, nil
}
