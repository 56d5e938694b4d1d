package models

import "encoding/json"

// Package is a package record. Only the fields the lookup tools read are
// modelled; the rest travel through Raw.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Summary string `json:"summary"`

	raw json.RawMessage
}

func (p *Package) UnmarshalJSON(b []byte) error {
	type plain Package
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Package(v)
	p.raw = cloneRaw(b)
	return nil
}

func (p Package) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	type plain Package
	return json.Marshal(plain(p))
}

// Raw returns the original JSON object.
func (p Package) Raw() json.RawMessage { return p.raw }

// Alert is an alert record; Type carries the severity ("critical", "warning").
type Alert struct {
	Type string `json:"type"`

	raw json.RawMessage
}

func (a *Alert) UnmarshalJSON(b []byte) error {
	type plain Alert
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Alert(v)
	a.raw = cloneRaw(b)
	return nil
}

func (a Alert) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	type plain Alert
	return json.Marshal(plain(a))
}

// Activity is an audit-log entry.
type Activity struct {
	ID ID `json:"id"`

	raw json.RawMessage
}

func (a *Activity) UnmarshalJSON(b []byte) error {
	type plain Activity
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Activity(v)
	a.raw = cloneRaw(b)
	return nil
}

func (a Activity) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	type plain Activity
	return json.Marshal(plain(a))
}
