package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// UserRef is the back-reference a user keeps to the account that created it.
type UserRef struct {
	ID       int64  `json:"id" bson:"id"`
	Username string `json:"username,omitempty" bson:"username,omitempty"`
	FullName string `json:"fullName,omitempty" bson:"fullName,omitempty"`
}

// UnmarshalJSON accepts either a user object or a bare creator id, since
// older documents store createdBy both ways.
func (r *UserRef) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != 'n' {
		id, err := strconv.ParseInt(string(bytes.Trim(trimmed, `"`)), 10, 64)
		if err != nil {
			return err
		}
		*r = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var out plain
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*r = UserRef(out)
	return nil
}

// User models an account managed through the hierarchy. Password is an
// opaque credential; it is persisted but never rendered in responses.
type User struct {
	ID           int64      `json:"id" bson:"id"`
	Username     string     `json:"username" bson:"username"`
	Password     string     `json:"password" bson:"password"`
	FullName     string     `json:"fullName" bson:"fullName"`
	Email        string     `json:"email" bson:"email"`
	RoleID       int64      `json:"roleId" bson:"roleId"`
	IsActive     bool       `json:"isActive" bson:"isActive"`
	IsSuperAdmin bool       `json:"isSuperAdmin" bson:"isSuperAdmin"`
	CreatedBy    *UserRef   `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Ref returns the back-reference stored on users this account creates.
func (u User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

// CreatedByID returns the creator id, or 0 when the user has no creator.
func (u User) CreatedByID() int64 {
	if u.CreatedBy == nil {
		return 0
	}
	return u.CreatedBy.ID
}

func (u User) clone() User {
	out := u
	if u.CreatedBy != nil {
		ref := *u.CreatedBy
		out.CreatedBy = &ref
	}
	if u.UpdatedAt != nil {
		t := *u.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
