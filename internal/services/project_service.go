package services

import (
	"errors"

	"github.com/google/uuid"

	"order_manager/internal/models"
	"order_manager/internal/repository"
)

var ErrNotProjectOwner = errors.New("only the project owner may manage members")

type ProjectService interface {
	CreateProject(name string, ownerID int64) (*models.Project, error)
	GetProjectByID(id string) (*models.Project, error)
	GetUserProjects(userID int64) ([]models.Project, error)
	AddMember(projectID string, actorID, userID int64) error
	IsMember(projectID string, userID int64) (bool, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

func (s *projectService) CreateProject(name string, ownerID int64) (*models.Project, error) {
	project := &models.Project{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetProjectByID(id string) (*models.Project, error) {
	return s.projectRepo.GetByID(id)
}

func (s *projectService) GetUserProjects(userID int64) ([]models.Project, error) {
	return s.projectRepo.GetForUser(userID)
}

func (s *projectService) AddMember(projectID string, actorID, userID int64) error {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != actorID {
		return ErrNotProjectOwner
	}
	return s.projectRepo.AddMember(projectID, userID)
}

func (s *projectService) IsMember(projectID string, userID int64) (bool, error) {
	return s.projectRepo.IsMember(projectID, userID)
}
