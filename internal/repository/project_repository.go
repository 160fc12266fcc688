package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"order_manager/internal/models"
)

type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id string) (*models.Project, error)
	GetForUser(userID int64) ([]models.Project, error)
	AddMember(projectID string, userID int64) error
	IsMember(projectID string, userID int64) (bool, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		// the owner is always a member
		return tx.Create(&models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
		}).Error
	})
}

func (r *projectRepository) GetByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetForUser(userID int64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) AddMember(projectID string, userID int64) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
	}).Error
}

func (r *projectRepository) IsMember(projectID string, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}
