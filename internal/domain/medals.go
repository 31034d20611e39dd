package domain

var medalAssignments = map[PlayerID][]string{
	621243206:  {"Medal Of Honor", "Distinguished Service", "Achivement Of Activity", "Medal Of Stars Honesty", "Leaderships Medal Of Honour", "Invaluted's Bravery"},
	2808148032: {"Achivement Of Activity"},
	1439310935: {"Medal Of Honor", "Achivement Of Activity"},
	2411349338: {"Medal Of Stars Honesty"},
	4278897258: {"Medal Of Dedication"},
	1301506053: {"Distinguished Service", "Medal Of Dedication"},
	3799212924: {"Leaderships Medal Of Honour", "Achivement Of Activity"},
	2493429350: {"Medal Of Stars Honesty"},
	4981240382: {"Medal Of Honor", "Distinguished Service", "Achivement Of Activity", "Medal Of Stars Honesty"},
	1120715283: {"Medal Of Honor", "Distinguished Service", "Medal Of Stars Honesty", "Leaderships Medal Of Honour", "Medal Of Dedication", "Achivement Of Activity"},
	1208840794: {"Medal Of Honor", "Distinguished Service", "Medal Of Stars Honesty", "Leaderships Medal Of Honour"},
}

// MedalsFor returns a copy of the player's medals in award order, or an empty slice.
func MedalsFor(id PlayerID) []string {
	medals := medalAssignments[id]
	out := make([]string, len(medals))
	copy(out, medals)
	return out
}
