package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// ErrorPayload is the parsed body of a non-2xx response. Backends answer with
// a bare string, a {"detail": ...} or {"error": ...} object, a map of field
// names to message arrays (possibly nested), or nothing usable at all.
type ErrorPayload struct {
	Messages []string
}

// Structured reports whether the body carried at least one message.
func (p ErrorPayload) Structured() bool {
	return len(p.Messages) > 0
}

// Message joins every message in document order.
func (p ErrorPayload) Message() string {
	return strings.Join(p.Messages, ", ")
}

// ParseErrorPayload never fails: anything that is not well-formed JSON yields
// an empty payload.
func ParseErrorPayload(body []byte) ErrorPayload {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ErrorPayload{}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var messages []string
	if err := collect(dec, &messages); err != nil {
		return ErrorPayload{}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		// Trailing garbage after the first value: not a JSON document.
		return ErrorPayload{}
	}

	return ErrorPayload{Messages: messages}
}

// collect walks one JSON value with the token stream so object keys keep the
// order the backend wrote them in.
func collect(dec *json.Decoder, out *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			for dec.More() {
				if _, err := dec.Token(); err != nil { // key
					return err
				}
				if err := collect(dec, out); err != nil {
					return err
				}
			}
		case '[':
			for dec.More() {
				if err := collect(dec, out); err != nil {
					return err
				}
			}
		}
		_, err := dec.Token() // closing delimiter
		return err
	case string:
		if s := strings.TrimSpace(v); s != "" {
			*out = append(*out, s)
		}
	case json.Number:
		*out = append(*out, v.String())
	case bool:
		if v {
			*out = append(*out, "true")
		} else {
			*out = append(*out, "false")
		}
	case nil:
	}
	return nil
}
