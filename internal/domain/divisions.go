package domain

import "fmt"

type Division struct {
	GroupID int64
	Name    string
}

// Divisions is the allow-list of groups shown on a profile, in display order.
var Divisions = []Division{
	{35324584, "Republic Army"},
	{35326817, "91st Reconnaissance Corps"},
	{35326823, "327th Legion"},
	{35326812, "Advanced Recon Commandos"},
	{35326815, "Coruscant Guard"},
	{35326827, "Red Guards"},
	{12658410, "Republic Commandos"},
	{35326830, "Republic Intelligence"},
	{33943342, "Galactic Senate"},
	{16060314, "Senate Guard"},
	{16282238, "The Jedi Order"},
	{35328710, "41st Elite Corps"},
}

var divisionNames = func() map[int64]string {
	m := make(map[int64]string, len(Divisions))
	for _, d := range Divisions {
		m[d.GroupID] = d.Name
	}
	return m
}()

// GroupName returns the allow-list name for groupID, then the service's name,
// then a synthesized "Group <id>".
func GroupName(groupID int64, external string) string {
	if name, ok := divisionNames[groupID]; ok {
		return name
	}
	if external != "" {
		return external
	}
	return fmt.Sprintf("Group %d", groupID)
}

// DivisionsFor intersects roles with the allow-list. Output order follows
// Divisions regardless of the order roles arrive in; groups outside the
// allow-list are dropped.
func DivisionsFor(roles []GroupRole) []DivisionMembership {
	byGroup := make(map[int64]GroupRole, len(roles))
	for _, r := range roles {
		byGroup[r.GroupID] = r
	}

	out := make([]DivisionMembership, 0, len(byGroup))
	for _, d := range Divisions {
		r, ok := byGroup[d.GroupID]
		if !ok {
			continue
		}
		out = append(out, DivisionMembership{
			GroupID:     d.GroupID,
			DisplayName: d.Name,
			RoleName:    r.RoleName,
			RoleRank:    r.RoleRank,
		})
	}
	return out
}

// MainRankFor picks the membership in the home group, or NotInGroup.
func MainRankFor(roles []GroupRole, homeGroupID int64) MainRank {
	for _, r := range roles {
		if r.GroupID != homeGroupID {
			continue
		}
		name := r.GroupName
		if name == "" {
			name = GroupName(r.GroupID, "")
		}
		return MainRank{Name: name, Role: r.RoleName}
	}
	return NotInGroup
}
