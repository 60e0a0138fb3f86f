package model

import "strings"

// Project is a fundraising campaign owned by exactly one user.
type Project struct {
	ID            Ident  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	TargetAmount  Money  `json:"target_amount"`
	CurrentAmount Money  `json:"current_amount"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Owner         Ident  `json:"owner"`
}

// ProjectInput is the body of the create and update endpoints.
type ProjectInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TargetAmount string `json:"target_amount"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// Input returns the editable fields of the project, with dates cut to their
// date part so they can be resubmitted as-is.
func (p Project) Input() ProjectInput {
	return ProjectInput{
		Title:        p.Title,
		Description:  p.Description,
		TargetAmount: string(p.TargetAmount),
		StartDate:    DateOnly(p.StartDate),
		EndDate:      DateOnly(p.EndDate),
	}
}

// DateOnly strips the time part of an ISO-8601 timestamp.
func DateOnly(value string) string {
	if i := strings.IndexByte(value, 'T'); i >= 0 {
		return value[:i]
	}
	return value
}
