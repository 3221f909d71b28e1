package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyPayload is returned for blank input
var ErrEmptyPayload = errors.New("empty payload")

var (
	fencedJSON       = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	trailingCommas   = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeys     = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlCharacter = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// DecodeLenientJSON decodes tool arguments produced by a language model. Besides
// plain JSON it accepts a payload wrapped in a markdown fence, embedded in
// surrounding prose, or carrying trailing commas, bare keys and single quotes.
func DecodeLenientJSON(input string, target any) error {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if input == "" {
		return ErrEmptyPayload
	}

	candidates := []func(string) string{
		func(s string) string { return s },
		unfence,
		firstObject,
		repair,
		func(s string) string { return repair(firstObject(unfence(s))) },
	}

	var lastErr error
	for _, candidate := range candidates {
		payload := candidate(input)
		if payload == "" {
			continue
		}
		if err := json.Unmarshal([]byte(payload), target); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to decode arguments %q: %w", truncate(input, 100), lastErr)
}

// unfence returns the body of the first ``` block, or "" if there is none.
func unfence(input string) string {
	m := fencedJSON.FindStringSubmatch(input)
	if len(m) < 2 {
		return ""
	}
	body := strings.TrimSpace(m[1])
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		return body
	}
	return ""
}

// firstObject returns the first balanced {...} in the input, or "" if there is none.
func firstObject(input string) string {
	start := strings.Index(input, "{")
	if start < 0 {
		return ""
	}
	return balanced(input[start:], '{', '}')
}

func balanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}

	return ""
}

// repair fixes the mistakes models make most often
func repair(input string) string {
	if input == "" {
		return ""
	}
	s := trailingCommas.ReplaceAllString(input, "$1")
	s = unquotedKeys.ReplaceAllString(s, `$1"$2"$3`)
	s = singleToDoubleQuotes(s)
	return controlCharacter.ReplaceAllString(s, "")
}

// singleToDoubleQuotes swaps single quotes that delimit values or keys.
// Apostrophes inside words and inside double-quoted strings are left alone.
func singleToDoubleQuotes(input string) string {
	var out strings.Builder
	inDouble := false
	inSingle := false
	escape := false
	var prev rune // last non-space rune written

	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			if inSingle {
				inSingle = false
				ch = '"'
			} else if prev == 0 || prev == ':' || prev == ',' || prev == '[' || prev == '{' {
				inSingle = true
				ch = '"'
			}
		}
		out.WriteRune(ch)
		if ch != ' ' && ch != '\t' && ch != '\n' {
			prev = ch
		}
	}

	return out.String()
}

// truncate keeps at most maxLen runes
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
