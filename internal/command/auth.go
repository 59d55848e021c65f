package command

import "slices"

// Gate decides whether an interaction may be dispatched at all.
type Gate interface {
	Authorize(in Interaction) bool
}

// RoleGate admits members holding one configured role. Invocations without
// member data (direct messages) are refused, as is everything when RoleID is empty.
type RoleGate struct {
	RoleID string
}

func (g RoleGate) Authorize(in Interaction) bool {
	if in == nil || g.RoleID == "" {
		return false
	}
	inv := in.Invoker()
	if !inv.HasMember {
		return false
	}
	return slices.Contains(inv.Roles, g.RoleID)
}
