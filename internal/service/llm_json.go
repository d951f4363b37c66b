package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var errNoJSONObject = errors.New("llm reply has no json object")

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// decodeLLMJSON limpia la respuesta del modelo y decodifica su primer objeto JSON en v.
func decodeLLMJSON(raw string, v any) error {
	obj := extractFirstJSONObject(cleanLLMJSONResponse(raw))
	if obj == "" {
		return errNoJSONObject
	}
	return json.Unmarshal([]byte(obj), v)
}

// cleanLLMJSONResponse quita fences ```json ... ``` y BOM.
func cleanLLMJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractFirstJSONObject devuelve el primer objeto balanceado, ignorando llaves dentro de strings.
func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0
	for i := start; i < len(input); i++ {
		ch := input[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}
