package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crowdfund-client/internal/model"
)

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*model.RegisterRequest)
		field  string
	}{
		{name: "valid", mutate: func(*model.RegisterRequest) {}},
		{name: "missing last name", mutate: func(r *model.RegisterRequest) { r.LastName = "" }, field: "last_name"},
		{name: "email without at", mutate: func(r *model.RegisterRequest) { r.Email = "ada.example.com" }, field: "email"},
		{name: "landline", mutate: func(r *model.RegisterRequest) { r.PhoneNumber = "0223456789" }, field: "phone_number"},
		{name: "wrong operator prefix", mutate: func(r *model.RegisterRequest) { r.PhoneNumber = "01312345678" }, field: "phone_number"},
		{name: "seven characters", mutate: func(r *model.RegisterRequest) { r.Password, r.ConfirmPassword = "1234567", "1234567" }, field: "password"},
		{name: "confirmation differs", mutate: func(r *model.RegisterRequest) { r.ConfirmPassword = "analyticaL" }, field: "confirm_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := registration("ada@example.com")
			tt.mutate(&req)

			err := ValidateRegistration(req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var inputErr *InputError
			if assert.ErrorAs(t, err, &inputErr) {
				assert.Equal(t, tt.field, inputErr.Field)
			}
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestValidateProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input model.ProjectInput
		field string
	}{
		{name: "full form", input: projectInput("Clean water")},
		{name: "title only", input: model.ProjectInput{Title: "Clean water"}},
		{name: "timestamps are cut to dates", input: model.ProjectInput{Title: "x", StartDate: "2025-01-01T00:00:00Z", EndDate: "2025-01-02T00:00:00Z"}},
		{name: "blank title", input: model.ProjectInput{Title: " "}, field: "title"},
		{name: "negative amount", input: model.ProjectInput{Title: "x", TargetAmount: "-5"}, field: "target_amount"},
		{name: "text amount", input: model.ProjectInput{Title: "x", TargetAmount: "ten"}, field: "target_amount"},
		{name: "bad date", input: model.ProjectInput{Title: "x", StartDate: "2025/01/01"}, field: "start_date"},
		{name: "end before start", input: model.ProjectInput{Title: "x", StartDate: "2025-02-01", EndDate: "2025-01-01"}, field: "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateProject(tt.input)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var inputErr *InputError
			if assert.ErrorAs(t, err, &inputErr) {
				assert.Equal(t, tt.field, inputErr.Field)
			}
		})
	}
}
