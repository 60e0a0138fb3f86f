package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"crowdfund-client/internal/model"
)

var egyptianMobile = regexp.MustCompile(`^01[0125][0-9]{8}$`)

const minPasswordLength = 8

// InputError is a form error caught before any request is sent.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return model.ErrInvalidInput
}

func invalid(field string, format string, args ...any) *InputError {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func ValidateLogin(req model.LoginRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return invalid("email", "Email is required")
	}
	if req.Password == "" {
		return invalid("password", "Password is required")
	}
	return nil
}

func ValidateRegistration(req model.RegisterRequest) error {
	required := []struct {
		field, label, value string
	}{
		{"first_name", "First name", req.FirstName},
		{"last_name", "Last name", req.LastName},
		{"email", "Email", req.Email},
		{"phone_number", "Phone number", req.PhoneNumber},
		{"password", "Password", req.Password},
		{"confirm_password", "Password confirmation", req.ConfirmPassword},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field, "%s is required", r.label)
		}
	}

	if !strings.Contains(req.Email, "@") {
		return invalid("email", "Enter a valid email address")
	}
	if !egyptianMobile.MatchString(strings.TrimSpace(req.PhoneNumber)) {
		return invalid("phone_number", "Phone number must be an Egyptian mobile number (01XXXXXXXXX)")
	}
	if len(req.Password) < minPasswordLength {
		return invalid("password", "Password must be at least %d characters", minPasswordLength)
	}
	if req.Password != req.ConfirmPassword {
		return invalid("confirm_password", "Passwords do not match")
	}
	return nil
}

// ValidateProject checks a create or update form. Dates are optional on their
// own but must be well formed and ordered when both are given.
func ValidateProject(input model.ProjectInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return invalid("title", "Project title is required")
	}

	if amount := strings.TrimSpace(input.TargetAmount); amount != "" {
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return invalid("target_amount", "Target amount must be a positive number")
		}
	}

	start, err := parseFormDate("start_date", input.StartDate)
	if err != nil {
		return err
	}
	end, err := parseFormDate("end_date", input.EndDate)
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return invalid("end_date", "End date cannot be before start date")
	}
	return nil
}

func parseFormDate(field string, raw string) (time.Time, error) {
	raw = model.DateOnly(strings.TrimSpace(raw))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, invalid(field, "Dates must use the YYYY-MM-DD format")
	}
	return t, nil
}
