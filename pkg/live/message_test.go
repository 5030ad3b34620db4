package live

import (
	"errors"
	"testing"
)

func TestParseMessage(t *testing.T) {
	raw := []byte(`{
		"contextId": "ctx-1",
		"parentContextId": "root",
		"level": "INFO",
		"text": "projects loaded",
		"labels": ["ProjectsLoadingResults", "Label"],
		"attributes": {"profile": "default", "retries": 3},
		"data": {"results": [{"name": "foo"}]},
		"timestamp": 1700000000.5
	}`)

	m, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ContextID != "ctx-1" || m.ParentContextID != "root" {
		t.Errorf("ids = %q/%q", m.ContextID, m.ParentContextID)
	}
	if m.Level != "INFO" || m.Text != "projects loaded" {
		t.Errorf("level/text = %q/%q", m.Level, m.Text)
	}
	if !m.HasLabel("ProjectsLoadingResults") || m.HasLabel("Missing") {
		t.Errorf("labels = %v", m.Labels)
	}
	if m.Attributes["profile"] != "default" {
		t.Errorf("profile = %q, want default", m.Attributes["profile"])
	}
	if m.Attributes["retries"] != "3" {
		t.Errorf("retries = %q, want 3", m.Attributes["retries"])
	}
	if m.Timestamp != 1700000000.5 {
		t.Errorf("timestamp = %v", m.Timestamp)
	}

	type results struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	data, err := DecodeData[results](m)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(data.Results) != 1 || data.Results[0].Name != "foo" {
		t.Errorf("data = %+v", data)
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not json", "[1,2]", `"text"`} {
		t.Run(raw, func(t *testing.T) {
			if _, err := ParseMessage([]byte(raw)); !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("error = %v, want ErrMalformedMessage", err)
			}
		})
	}
}

func TestParseMessage_EmptyLabels(t *testing.T) {
	m, err := ParseMessage([]byte(`{"contextId":"c","labels":[],"attributes":{}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Labels == nil || m.Attributes == nil {
		t.Errorf("labels = %v, attributes = %v, want non-nil", m.Labels, m.Attributes)
	}
}

func TestEmpty(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"  ", true},
		{"{}", true},
		{" { } ", true},
		{`{"a":1}`, false},
		{"[]", false},
	}
	for _, tt := range tests {
		if got := empty([]byte(tt.raw)); got != tt.want {
			t.Errorf("empty(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeData_NoData(t *testing.T) {
	v, err := DecodeData[map[string]int](ContextMessage{})
	if err != nil || v != nil {
		t.Errorf("DecodeData = %v, %v; want nil, nil", v, err)
	}
}
