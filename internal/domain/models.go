package domain

import (
	"strconv"
	"time"
)

type PlayerID int64

func (id PlayerID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// StatsRecord is the latest telemetry snapshot reported for one player.
// Values are copied out of the cache, so holding one never observes a later write.
type StatsRecord struct {
	PlayerID        PlayerID  `json:"userId"`
	XP              int64     `json:"xp"`
	Kills           int64     `json:"kills"`
	PlayTimeSeconds int64     `json:"playTimeSeconds"`
	FirstSeen       time.Time `json:"firstSeen"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// Presence mirrors the identity service's userPresenceType values.
type Presence int

const (
	PresenceOffline Presence = 0
	PresenceOnline  Presence = 1
	PresenceInGame  Presence = 2
)

func (p Presence) String() string {
	switch p {
	case PresenceOnline:
		return "online"
	case PresenceInGame:
		return "in_game"
	default:
		return "offline"
	}
}

type GroupRole struct {
	GroupID   int64
	GroupName string
	RoleName  string
	RoleRank  *int
}

type DivisionMembership struct {
	GroupID     int64  `json:"groupId"`
	DisplayName string `json:"displayName"`
	RoleName    string `json:"roleName"`
	RoleRank    *int   `json:"roleRank,omitempty"`
}

type MainRank struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

var NotInGroup = MainRank{Name: "Not in group", Role: "N/A"}

type ProfileResult struct {
	PlayerID    PlayerID             `json:"userId"`
	DisplayName string               `json:"displayName"`
	MainRank    MainRank             `json:"mainRank"`
	Divisions   []DivisionMembership `json:"divisions"`
	OnDuty      bool                 `json:"onDuty"`
	Stats       StatsRecord          `json:"stats"`
	PlayTime    string               `json:"playTime"`
	Medals      []string             `json:"medals"`
}
