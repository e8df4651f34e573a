package model

import (
	"bytes"
	"encoding/json"
)

// Owner identifies who a calendar belongs to. The directory service sends
// either {"name":..,"address":..} or a bare display string.
type Owner struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

func (o *Owner) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = Owner{Name: s}
		return nil
	}
	type plain Owner
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Owner(p)
	return nil
}

// String is what reminder labels show ("Send reminders to ...").
func (o Owner) String() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Address
}

// Calendar is one addressable calendar from the directory service.
type Calendar struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Owner    Owner  `json:"owner"`
	Color    string `json:"color"`
	CanEdit  bool   `json:"canEdit"`
	IsShared bool   `json:"isShared"`
}
