package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"crowdfund-client/internal/gateway"
	"crowdfund-client/internal/model"
	"crowdfund-client/internal/ownership"
	"crowdfund-client/internal/session"
)

const (
	pathProjects      = "/api/projects/"
	pathCreateProject = "/api/projects/create/"
)

func projectPath(id model.Ident) string {
	return pathProjects + url.PathEscape(strings.TrimSpace(string(id))) + "/"
}

// ProjectService wraps the project endpoints. Every call is authenticated.
type ProjectService struct {
	gateway *gateway.Gateway
}

func NewProjectService(gw *gateway.Gateway) *ProjectService {
	return &ProjectService{gateway: gw}
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := s.gateway.Call(ctx, http.MethodGet, pathProjects, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Mine lists the projects owned by the given session user.
func (s *ProjectService) Mine(ctx context.Context, state session.State) ([]model.Project, error) {
	projects, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ownership.Filter(projects, state), nil
}

func (s *ProjectService) Get(ctx context.Context, id model.Ident) (model.Project, error) {
	var project model.Project
	if err := s.gateway.Call(ctx, http.MethodGet, projectPath(id), nil, &project); err != nil {
		return model.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, input model.ProjectInput) (model.Project, error) {
	input = normalize(input)
	if err := ValidateProject(input); err != nil {
		return model.Project{}, err
	}

	var created model.Project
	if err := s.gateway.Call(ctx, http.MethodPost, pathCreateProject, input, &created); err != nil {
		return model.Project{}, err
	}
	return created, nil
}

// Update sends the full form. The backend decides whether the caller owns the
// project; a refusal comes back as a validation failure.
func (s *ProjectService) Update(ctx context.Context, id model.Ident, input model.ProjectInput) (model.Project, error) {
	input = normalize(input)
	if err := ValidateProject(input); err != nil {
		return model.Project{}, err
	}

	var updated model.Project
	if err := s.gateway.Call(ctx, http.MethodPut, projectPath(id)+"update/", input, &updated); err != nil {
		return model.Project{}, err
	}
	return updated, nil
}

func normalize(input model.ProjectInput) model.ProjectInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.TargetAmount = strings.TrimSpace(input.TargetAmount)
	input.StartDate = model.DateOnly(strings.TrimSpace(input.StartDate))
	input.EndDate = model.DateOnly(strings.TrimSpace(input.EndDate))
	return input
}
