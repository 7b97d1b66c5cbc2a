package domain

// Document is the whole persisted state: every user, role and permission.
// It is always loaded and saved as a unit.
type Document struct {
	Users       []User       `json:"users" bson:"users"`
	Roles       []Role       `json:"roles" bson:"roles"`
	Permissions []Permission `json:"permissions" bson:"permissions"`
}

// Clone returns a deep copy that can be mutated without affecting d.
func (d *Document) Clone() *Document {
	if d == nil {
		return &Document{}
	}
	out := &Document{
		Users:       make([]User, len(d.Users)),
		Roles:       make([]Role, len(d.Roles)),
		Permissions: append([]Permission(nil), d.Permissions...),
	}
	for i, u := range d.Users {
		out.Users[i] = u.clone()
	}
	for i, r := range d.Roles {
		out.Roles[i] = r.clone()
	}
	return out
}

// UserIndex returns the slice index of the user with id, or -1.
func (d *Document) UserIndex(id int64) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// RoleIndex returns the slice index of the role with id, or -1.
func (d *Document) RoleIndex(id int64) int {
	for i := range d.Roles {
		if d.Roles[i].ID == id {
			return i
		}
	}
	return -1
}

// FindUser looks a user up by id.
func (d *Document) FindUser(id int64) (User, bool) {
	if i := d.UserIndex(id); i >= 0 {
		return d.Users[i], true
	}
	return User{}, false
}

// FindRole looks a role up by id.
func (d *Document) FindRole(id int64) (Role, bool) {
	if i := d.RoleIndex(id); i >= 0 {
		return d.Roles[i], true
	}
	return Role{}, false
}

// FindUserByUsername matches usernames exactly.
func (d *Document) FindUserByUsername(username string) (User, bool) {
	for _, u := range d.Users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

// FindRoleByName matches role names case-insensitively.
func (d *Document) FindRoleByName(name string) (Role, bool) {
	for _, r := range d.Roles {
		if r.HasName(name) {
			return r, true
		}
	}
	return Role{}, false
}

// CountUsersWithRole returns how many users reference roleID.
func (d *Document) CountUsersWithRole(roleID int64) int {
	n := 0
	for _, u := range d.Users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n
}

// ResolvePermissions intersects the global permission list with the role's
// permission ids, keeping the global order.
func (d *Document) ResolvePermissions(r Role) []Permission {
	ids := r.PermissionIDs()
	out := make([]Permission, 0, len(ids))
	for _, p := range d.Permissions {
		if _, ok := ids[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// FindPermission looks a permission up by id.
func (d *Document) FindPermission(id int64) (Permission, bool) {
	for _, p := range d.Permissions {
		if p.ID == id {
			return p, true
		}
	}
	return Permission{}, false
}

// NextUserID is max(existing ids) + 1.
func (d *Document) NextUserID() int64 {
	var max int64
	for _, u := range d.Users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

// NextRoleID is max(existing ids) + 1.
func (d *Document) NextRoleID() int64 {
	var max int64
	for _, r := range d.Roles {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}
