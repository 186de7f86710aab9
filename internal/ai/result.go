package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusDegraded    Status = "degraded"
)

// Result carries a value and whether it came from the model. Value holds the
// neutral default whenever Status is not StatusOK.
type Result[T any] struct {
	Value  T      `json:"value"`
	Status Status `json:"status"`
}

func (r Result[T]) OK() bool { return r.Status == StatusOK }

var errNoJSON = errors.New("no JSON value in reply")

// extractJSON returns the first balanced value opened by open ('[' or '{') in text.
// Brackets inside string literals are ignored.
func extractJSON(text string, open byte) (string, error) {
	closeCh := byte(']')
	if open == '{' {
		closeCh = '}'
	}
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", errNoJSON
	}

	depth, inString, escaped := 0, false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errNoJSON
}

// decodeReply extracts, validates and decodes the JSON value in a model reply.
func decodeReply[T any](reply string, open byte, schema *gojsonschema.Schema, out *T) error {
	raw, err := extractJSON(reply, open)
	if err != nil {
		return err
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("validate reply: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("reply does not match schema: %s", strings.Join(msgs, "; "))
	}
	return json.Unmarshal([]byte(raw), out)
}
