package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want []string
	}{
		{line: "", want: nil},
		{line: "   ", want: nil},
		{line: "projects", want: []string{"projects"}},
		{line: "project 3  -title\tx", want: []string{"project", "3", "-title", "x"}},
		{line: `project 3 -title "Clean water"`, want: []string{"project", "3", "-title", "Clean water"}},
		{line: `create -description 'it''s fine'`, want: []string{"create", "-description", "its fine"}},
		{line: `create -title "say \"hi\""`, want: []string{"create", "-title", `say "hi"`}},
		{line: `create -title ""`, want: []string{"create", "-title", ""}},
		{line: `a\ b`, want: []string{"a b"}},
	}

	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestSplitArgsUnterminated(t *testing.T) {
	t.Parallel()

	_, err := splitArgs(`create -title "oops`)
	require.ErrorIs(t, err, errUnterminatedQuote)

	_, err = splitArgs(`trailing\`)
	require.ErrorIs(t, err, errUnterminatedQuote)
}
