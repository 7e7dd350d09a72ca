// Package jira is a minimal Jira REST v2 client covering what the exporter needs:
// session establishment, project and status listing, and issue counting.
package jira

import "context"

// Endpoint identifies a Jira instance and the basic-auth credentials used against it.
type Endpoint struct {
	URL      string
	Username string
	Password string // API token for Jira Cloud
}

// String renders the endpoint without its password.
func (e Endpoint) String() string {
	if e.Username == "" {
		return e.URL
	}
	return e.Username + "@" + e.URL
}

// Project is a Jira project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Status is a workflow status.
type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServerInfo is the subset of /serverInfo used to verify a session.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	DeploymentType string `json:"deploymentType"`
	ServerTitle    string `json:"serverTitle"`
}

// Dialer opens authenticated sessions.
type Dialer interface {
	Open(ctx context.Context, endpoint Endpoint) (Session, error)
}

// Session is an authenticated connection to one Jira instance.
type Session interface {
	Projects(ctx context.Context) ([]Project, error)
	Statuses(ctx context.Context) ([]Status, error)
	// CountIssues returns the number of issues in project with the given status,
	// without fetching issue bodies.
	CountIssues(ctx context.Context, projectKey, status string) (int, error)
}
