// Package formatting parses structured payloads out of model completions.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed signals that content held no decodable JSON, directly or
// inside a markdown fence.
var ErrParseFailed = errors.New("failed to parse response")

var fenceRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse decodes content into T. It tries the raw text first, then the body
// of the first markdown code fence; models wrap JSON in fences or prose
// often enough that both paths matter. The error carries the offending
// content for the error log.
func Parse[T any](content string) (T, error) {
	var out T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &out); err == nil {
		return out, nil
	}

	if m := fenceRegex.FindStringSubmatch(content); len(m) >= 2 {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &out); err == nil {
			return out, nil
		}
	}

	return out, fmt.Errorf("%w: %s", ErrParseFailed, content)
}
