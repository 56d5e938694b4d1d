package models

import (
	"bytes"
	"encoding/json"
)

// Machine is one computer record as returned by the fleet API.
//
// Every field is optional on the wire. Absent values decode to their zero
// value, except Distribution, which stays nil so callers can tell "not
// reported" apart from an empty label. The original JSON object is retained
// and re-emitted by MarshalJSON so exports carry fields this type does not
// model.
type Machine struct {
	ID           ID                `json:"id"`
	Hostname     string            `json:"hostname"`
	Title        string            `json:"title,omitempty"`
	Tags         []string          `json:"tags"`
	Annotations  map[string]string `json:"annotations,omitempty"`
	Distribution *string           `json:"distribution,omitempty"`
	LastPingTime string            `json:"last_ping_time,omitempty"`

	raw json.RawMessage
}

type machineWire struct {
	ID           ID                         `json:"id"`
	Hostname     *string                    `json:"hostname"`
	Title        *string                    `json:"title"`
	Tags         json.RawMessage            `json:"tags"`
	Annotations  map[string]json.RawMessage `json:"annotations"`
	Distribution *string                    `json:"distribution"`
	LastPingTime *string                    `json:"last_ping_time"`
}

// UnmarshalJSON decodes a computer record, tolerating missing or mistyped
// optional fields.
func (m *Machine) UnmarshalJSON(b []byte) error {
	var w machineWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*m = Machine{
		ID:           w.ID,
		Distribution: w.Distribution,
		raw:          cloneRaw(b),
	}
	if w.Hostname != nil {
		m.Hostname = *w.Hostname
	}
	if w.Title != nil {
		m.Title = *w.Title
	}
	if w.LastPingTime != nil {
		m.LastPingTime = *w.LastPingTime
	}

	// Tags that are not a list of strings are ignored rather than failing the
	// whole snapshot.
	if t := bytes.TrimSpace(w.Tags); len(t) > 0 && t[0] == '[' {
		var tags []string
		if err := json.Unmarshal(t, &tags); err == nil {
			m.Tags = tags
		}
	}

	if len(w.Annotations) > 0 {
		m.Annotations = make(map[string]string, len(w.Annotations))
		for k, v := range w.Annotations {
			m.Annotations[k] = ScalarString(v)
		}
	}
	return nil
}

// MarshalJSON re-emits the record exactly as received when it came from the
// wire, and the modelled fields otherwise.
func (m Machine) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	type plain Machine
	return json.Marshal(plain(m))
}

// Raw returns the original JSON object, or nil for records built in code.
func (m Machine) Raw() json.RawMessage { return m.raw }

// DistributionOr returns the distribution label, or def when the record did
// not report one.
func (m Machine) DistributionOr(def string) string {
	if m.Distribution == nil {
		return def
	}
	return *m.Distribution
}

// Annotation returns the value for key, or "" when absent.
func (m Machine) Annotation(key string) string {
	return m.Annotations[key]
}

// HasTag reports whether the machine carries tag exactly.
func (m Machine) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
