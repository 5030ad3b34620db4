package live

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
)

// ErrMalformedMessage is returned for frames that are not a JSON object.
var ErrMalformedMessage = errors.New("malformed context message")

// ContextMessage is a log entry of a backend context.
type ContextMessage struct {
	ContextID       string            `json:"contextId"`
	ParentContextID string            `json:"parentContextId,omitempty"`
	Level           string            `json:"level,omitempty"`
	Text            string            `json:"text,omitempty"`
	Labels          []string          `json:"labels,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	Data            json.RawMessage   `json:"data,omitempty"`
	Timestamp       float64           `json:"timestamp,omitempty"`

	// Raw is the frame the message was parsed from.
	Raw []byte `json:"-"`
}

// HasLabel reports whether label is one of m's labels.
func (m ContextMessage) HasLabel(label string) bool {
	return slices.Contains(m.Labels, label)
}

// ParseMessage parses one frame. Attribute values that are not strings keep
// their JSON text.
func ParseMessage(raw []byte) (ContextMessage, error) {
	if !gjson.ValidBytes(raw) {
		return ContextMessage{}, ErrMalformedMessage
	}
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return ContextMessage{}, ErrMalformedMessage
	}

	m := ContextMessage{
		ContextID:       r.Get("contextId").String(),
		ParentContextID: r.Get("parentContextId").String(),
		Level:           r.Get("level").String(),
		Text:            r.Get("text").String(),
		Timestamp:       r.Get("timestamp").Float(),
		Raw:             bytes.Clone(raw),
	}
	if labels := r.Get("labels"); labels.IsArray() {
		items := labels.Array()
		m.Labels = make([]string, 0, len(items))
		for _, l := range items {
			m.Labels = append(m.Labels, l.String())
		}
	}
	if attrs := r.Get("attributes"); attrs.IsObject() {
		m.Attributes = make(map[string]string)
		attrs.ForEach(func(k, v gjson.Result) bool {
			m.Attributes[k.String()] = v.String()
			return true
		})
	}
	if data := r.Get("data"); data.Exists() {
		m.Data = json.RawMessage(data.Raw)
	}
	return m, nil
}

// empty reports whether raw carries nothing: blank or "{}".
func empty(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return true
	}
	r := gjson.ParseBytes(trimmed)
	if !r.IsObject() {
		return false
	}
	n := 0
	r.ForEach(func(_, _ gjson.Result) bool {
		n++
		return false
	})
	return n == 0
}

// DecodeData decodes the data payload of m.
func DecodeData[T any](m ContextMessage) (T, error) {
	var v T
	if len(m.Data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(m.Data, &v); err != nil {
		return v, fmt.Errorf("decoding data of context %s: %w", m.ContextID, err)
	}
	return v, nil
}
