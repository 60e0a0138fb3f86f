package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		want       string
		structured bool
	}{
		{name: "field map keeps key order", body: `{"field1":["err a"],"field2":["err b","err c"]}`, want: "err a, err b, err c", structured: true},
		{name: "reverse key order", body: `{"zeta":["last written first"],"alpha":["second"]}`, want: "last written first, second", structured: true},
		{name: "detail string", body: `{"detail":"Not found."}`, want: "Not found.", structured: true},
		{name: "detail array", body: `{"detail":["a","b"]}`, want: "a, b", structured: true},
		{name: "error key", body: `{"error":"Invalid credentials"}`, want: "Invalid credentials", structured: true},
		{name: "nested field errors", body: `{"user":{"email":["taken"]},"non_field_errors":["mismatch"]}`, want: "taken, mismatch", structured: true},
		{name: "bare string", body: `"boom"`, want: "boom", structured: true},
		{name: "top level array", body: `["one", 2, true]`, want: "one, 2, true", structured: true},
		{name: "blank strings skipped", body: `{"a":["  "],"b":"ok"}`, want: "ok", structured: true},
		{name: "empty body", body: "", want: "", structured: false},
		{name: "html page", body: "<html><body>Bad Gateway</body></html>", want: "", structured: false},
		{name: "plain text", body: "Internal Server Error", want: "", structured: false},
		{name: "truncated json", body: `{"detail": "cut`, want: "", structured: false},
		{name: "trailing garbage", body: `{"detail":"x"} trailing`, want: "", structured: false},
		{name: "null", body: "null", want: "", structured: false},
		{name: "empty object", body: "{}", want: "", structured: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload := ParseErrorPayload([]byte(tt.body))
			require.Equal(t, tt.want, payload.Message())
			require.Equal(t, tt.structured, payload.Structured())
		})
	}
}
