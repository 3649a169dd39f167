package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList is stored as a jsonb array
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*l = nil
		return nil
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

// Clone returns an independent copy.
func (l StringList) Clone() StringList {
	if l == nil {
		return nil
	}
	out := make(StringList, len(l))
	copy(out, l)
	return out
}
