package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Role determines a user's baseline permissions. The set is closed:
// the policy package switches on it and denies anything it does not know.
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleProjectManager Role = "Project Manager"
	RoleDeveloper      Role = "Developer"
	RoleTester         Role = "Tester"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleDeveloper, RoleTester:
		return true
	}
	return false
}

// Privileged reports whether the role may manage projects, tasks and users.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleProjectManager
}

type Team string

const (
	TeamDesign   Team = "Design"
	TeamDatabase Team = "Database"
	TeamBackend  Team = "Backend"
	TeamFrontend Team = "Frontend"
	TeamDevOps   Team = "DevOps"
	TeamSecurity Team = "Tester/Security"
	TeamNone     Team = "None"
)

func (t Team) Valid() bool {
	switch t {
	case TeamDesign, TeamDatabase, TeamBackend, TeamFrontend, TeamDevOps, TeamSecurity, TeamNone:
		return true
	}
	return false
}

type Level string

const (
	LevelLead   Level = "Lead"
	LevelSenior Level = "Senior"
	LevelDev    Level = "Dev"
	LevelJunior Level = "Junior"
	LevelNone   Level = "None"
)

func (l Level) Valid() bool {
	switch l {
	case LevelLead, LevelSenior, LevelDev, LevelJunior, LevelNone:
		return true
	}
	return false
}

const (
	ProjectStatusNotStarted = "Not Started"
	ProjectStatusInPlanning = "In Planning"
	ProjectStatusActive     = "Active"
	ProjectStatusPaused     = "Paused"
	ProjectStatusCompleted  = "Completed"
	ProjectStatusArchived   = "Archived"
)

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusNotStarted, ProjectStatusInPlanning, ProjectStatusActive,
		ProjectStatusPaused, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

const (
	TaskStatusCreated     = "Created"
	TaskStatusAssigned    = "Assigned"
	TaskStatusInProgress  = "In Progress"
	TaskStatusSubmitted   = "Submitted"
	TaskStatusUnderReview = "Under Review"
	TaskStatusApproved    = "Approved"
	TaskStatusRejected    = "Rejected"
	TaskStatusRework      = "Rework"
)

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusCreated, TaskStatusAssigned, TaskStatusInProgress, TaskStatusSubmitted,
		TaskStatusUnderReview, TaskStatusApproved, TaskStatusRejected, TaskStatusRework:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
