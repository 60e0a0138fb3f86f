package devapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"crowdfund-client/internal/model"
)

type ProjectService struct {
	store *Store
	now   func() time.Time
}

func NewProjectService(store *Store) *ProjectService {
	return &ProjectService{store: store, now: time.Now}
}

func (s *ProjectService) List() []model.Project {
	projects := s.store.Projects()
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, toModel(p))
	}
	return out
}

func (s *ProjectService) Get(id int64) (model.Project, error) {
	project, err := s.store.Project(id)
	if err != nil {
		return model.Project{}, err
	}
	return toModel(project), nil
}

func (s *ProjectService) Create(ownerID int64, input model.ProjectInput) (model.Project, error) {
	fields, err := parseProjectInput(input)
	if err != nil {
		return model.Project{}, err
	}

	now := s.now().UTC()
	project := s.store.CreateProject(Project{
		Title:       fields.title,
		Description: fields.description,
		TargetCents: fields.targetCents,
		StartDate:   fields.start,
		EndDate:     fields.end,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return toModel(project), nil
}

// Update replaces the editable fields. Only the owner may update; anyone else
// gets model.ErrForbidden.
func (s *ProjectService) Update(id int64, userID int64, input model.ProjectInput) (model.Project, error) {
	project, err := s.store.Project(id)
	if err != nil {
		return model.Project{}, err
	}
	if project.OwnerID != userID {
		return model.Project{}, model.ErrForbidden
	}

	fields, err := parseProjectInput(input)
	if err != nil {
		return model.Project{}, err
	}

	project.Title = fields.title
	project.Description = fields.description
	project.TargetCents = fields.targetCents
	project.StartDate = fields.start
	project.EndDate = fields.end
	project.UpdatedAt = s.now().UTC()

	if err := s.store.SaveProject(project); err != nil {
		return model.Project{}, err
	}
	return toModel(project), nil
}

type projectFields struct {
	title       string
	description string
	targetCents int64
	start       time.Time
	end         time.Time
}

func parseProjectInput(input model.ProjectInput) (projectFields, error) {
	errs := FieldErrors{}
	fields := projectFields{
		title:       strings.TrimSpace(input.Title),
		description: strings.TrimSpace(input.Description),
	}

	if fields.title == "" {
		errs.Add("title", "This field may not be blank.")
	}
	if fields.description == "" {
		errs.Add("description", "This field may not be blank.")
	}

	if cents, ok := parseCents(input.TargetAmount); !ok {
		errs.Add("target_amount", "A valid number is required.")
	} else if cents <= 0 {
		errs.Add("target_amount", "Ensure this value is greater than 0.")
	} else {
		fields.targetCents = cents
	}

	start, startProblem := parseDate(input.StartDate)
	if startProblem != "" {
		errs.Add("start_date", startProblem)
	}
	end, endProblem := parseDate(input.EndDate)
	if endProblem != "" {
		errs.Add("end_date", endProblem)
	}
	if startProblem == "" && endProblem == "" && end.Before(start) {
		errs.Add("non_field_errors", "End date must be after start date.")
	}
	fields.start, fields.end = start, end

	return fields, errs.orNil()
}

func parseCents(raw string) (int64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e13 {
		return 0, false
	}
	return int64(math.Round(v * 100)), true
}

// parseDate returns the date or the validation message explaining why raw
// is not one.
func parseDate(raw string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, "This field may not be blank."
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), ""
	}
	return time.Time{}, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// toModel renders a project the way the backend serializer does: amounts as
// decimal strings, dates as timestamps and the owner as the numeric user id.
func toModel(p Project) model.Project {
	return model.Project{
		ID:            model.Ident(formatID(p.ID)),
		Title:         p.Title,
		Description:   p.Description,
		TargetAmount:  model.Money(formatCents(p.TargetCents)),
		CurrentAmount: model.Money(formatCents(p.CurrentCents)),
		StartDate:     p.StartDate.Format(time.RFC3339),
		EndDate:       p.EndDate.Format(time.RFC3339),
		Owner:         model.Ident(formatID(p.OwnerID)),
	}
}
