package devapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund-client/internal/model"
)

func validInput() model.ProjectInput {
	return model.ProjectInput{
		Title:        "Clean water",
		Description:  "Wells for three villages",
		TargetAmount: "1500",
		StartDate:    "2025-01-01",
		EndDate:      "2025-06-30",
	}
}

func TestCreateAndGetProject(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(NewStore())
	created, err := svc.Create(7, validInput())
	require.NoError(t, err)

	assert.Equal(t, model.Ident("1"), created.ID)
	assert.Equal(t, model.Ident("7"), created.Owner)
	assert.Equal(t, model.Money("1500.00"), created.TargetAmount)
	assert.Equal(t, model.Money("0.00"), created.CurrentAmount)
	assert.Equal(t, "2025-01-01T00:00:00Z", created.StartDate)

	got, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(99)
	require.ErrorIs(t, err, model.ErrProjectNotFound)
}

func TestProjectWireFormat(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(NewStore())
	created, err := svc.Create(7, validInput())
	require.NoError(t, err)

	data, err := json.Marshal(created)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":1`)
	assert.Contains(t, string(data), `"owner":7`)
	assert.Contains(t, string(data), `"target_amount":"1500.00"`)
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(NewStore())
	for range 3 {
		_, err := svc.Create(1, validInput())
		require.NoError(t, err)
	}

	list := svc.List()
	require.Len(t, list, 3)
	assert.Equal(t, model.Ident("3"), list[0].ID)
	assert.Equal(t, model.Ident("1"), list[2].ID)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(NewStore())
	created, err := svc.Create(7, validInput())
	require.NoError(t, err)

	input := validInput()
	input.Title = "Clean water, phase two"

	_, err = svc.Update(1, 8, input)
	require.ErrorIs(t, err, model.ErrForbidden)

	updated, err := svc.Update(1, 7, input)
	require.NoError(t, err)
	assert.Equal(t, "Clean water, phase two", updated.Title)
	assert.Equal(t, created.Owner, updated.Owner)

	_, err = svc.Update(42, 7, input)
	require.ErrorIs(t, err, model.ErrProjectNotFound)
}

func TestProjectValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*model.ProjectInput)
		field  string
	}{
		{name: "blank title", mutate: func(in *model.ProjectInput) { in.Title = "" }, field: "title"},
		{name: "non numeric amount", mutate: func(in *model.ProjectInput) { in.TargetAmount = "lots" }, field: "target_amount"},
		{name: "zero amount", mutate: func(in *model.ProjectInput) { in.TargetAmount = "0" }, field: "target_amount"},
		{name: "bad date", mutate: func(in *model.ProjectInput) { in.StartDate = "01/02/2025" }, field: "start_date"},
		{name: "end before start", mutate: func(in *model.ProjectInput) { in.EndDate = "2024-12-31" }, field: "non_field_errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := validInput()
			tt.mutate(&input)

			_, err := NewProjectService(NewStore()).Create(1, input)
			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tt.field)
		})
	}
}

func TestFormatCents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.05", formatCents(5))
	assert.Equal(t, "1234.50", formatCents(123450))
	assert.Equal(t, "-2.00", formatCents(-200))

	cents, ok := parseCents("99.999")
	require.True(t, ok)
	assert.Equal(t, int64(10000), cents)
}
