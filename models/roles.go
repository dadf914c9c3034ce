package models

// RoleSet is the capability set resolved from a user record. It is computed
// once at request entry; contract-scoped roles (which side of a given
// contract the user is on) are resolved separately by ID match.
type RoleSet struct {
	Admin    bool
	Client   bool
	Provider bool
}

// ResolveRoles derives the capability set from a user's type. Admins can act
// in every capacity.
func ResolveRoles(u *User) RoleSet {
	if u == nil {
		return RoleSet{}
	}
	switch u.UserType {
	case UserTypeAdmin:
		return RoleSet{Admin: true, Client: true, Provider: true}
	case UserTypeBoth:
		return RoleSet{Client: true, Provider: true}
	case UserTypeProvider:
		return RoleSet{Provider: true}
	case UserTypeClient:
		return RoleSet{Client: true}
	default:
		return RoleSet{}
	}
}
