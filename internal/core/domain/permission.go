package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Permission is immutable reference data such as VIEW_USERS.
type Permission struct {
	ID          int64  `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Category    string `json:"category,omitempty" bson:"category,omitempty"`
	Resource    string `json:"resource,omitempty" bson:"resource,omitempty"`
	Action      string `json:"action,omitempty" bson:"action,omitempty"`
}

// UnmarshalJSON accepts either a permission object or a bare id, since role
// documents reference permissions both ways.
func (p *Permission) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != 'n' {
		id, err := strconv.ParseInt(string(bytes.Trim(trimmed, `"`)), 10, 64)
		if err != nil {
			return err
		}
		*p = Permission{ID: id}
		return nil
	}
	type plain Permission
	var out plain
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*p = Permission(out)
	return nil
}
