package service

import (
	"errors"
	"testing"
)

func TestCleanLLMJSONResponse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}```", want: `{"a":1}`},
		{in: "\uFEFF  {\"a\":1}  ", want: `{"a":1}`},
		{in: "   ", want: ""},
	}
	for _, tt := range tests {
		if got := cleanLLMJSONResponse(tt.in); got != tt.want {
			t.Errorf("cleanLLMJSONResponse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `Sure! {"a":{"b":2}} trailing {"c":3}`, want: `{"a":{"b":2}}`},
		{in: `{"text":"brace } inside \" string"}`, want: `{"text":"brace } inside \" string"}`},
		{in: `no json here`, want: ""},
		{in: `{"open": true`, want: ""},
	}
	for _, tt := range tests {
		if got := extractFirstJSONObject(tt.in); got != tt.want {
			t.Errorf("extractFirstJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	if err := decodeLLMJSON("```json\n{\"name\":\"ok\"}\n```", &out); err != nil || out.Name != "ok" {
		t.Fatalf("expected decode, got %+v err=%v", out, err)
	}
	if err := decodeLLMJSON("nothing", &out); !errors.Is(err, errNoJSONObject) {
		t.Fatalf("expected errNoJSONObject, got %v", err)
	}
}
