// Package jiratest provides in-memory and HTTP fakes of a Jira instance for tests.
package jiratest

import (
	"context"
	"slices"
	"sync"

	"git.home.luguber.info/inful/jira-exporter/internal/jira"
)

// Query identifies one issue count request.
type Query struct {
	Project string
	Status  string
}

// Fake is an in-memory Jira instance. It implements jira.Dialer; sessions read its
// current state, so tests may mutate it between refreshes. Safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	projects []jira.Project
	statuses []jira.Status
	counts   map[Query]int
	failures map[Query]*failure

	// OpenErr, ProjectsErr and StatusesErr fail the corresponding call when set.
	OpenErr     error
	ProjectsErr error
	StatusesErr error

	// BeforeOpen runs at the start of every Open, outside the lock.
	BeforeOpen func(ctx context.Context)

	opens      []jira.Endpoint
	countCalls []Query
}

// New returns an empty fake.
func New() *Fake {
	return &Fake{counts: map[Query]int{}, failures: map[Query]*failure{}}
}

// AddProject registers projects by key; the name mirrors the key.
func (f *Fake) AddProject(keys ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.projects = append(f.projects, jira.Project{ID: k, Key: k, Name: k})
	}
	return f
}

// AddStatus registers statuses by name.
func (f *Fake) AddStatus(names ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.statuses = append(f.statuses, jira.Status{ID: n, Name: n})
	}
	return f
}

// SetCount sets the number of issues of project in status.
func (f *Fake) SetCount(project, status string, n int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[Query{project, status}] = n
	return f
}

type failure struct {
	err       error
	remaining int // <0 fails forever
}

// FailQuery makes every count query for (project, status) return err.
func (f *Fake) FailQuery(project, status string, err error) *Fake {
	return f.FailQueryTimes(project, status, err, -1)
}

// FailQueryTimes makes the next times count queries for (project, status) return err.
func (f *Fake) FailQueryTimes(project, status string, err error, times int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[Query{project, status}] = &failure{err: err, remaining: times}
	return f
}

// Opens returns the number of sessions opened.
func (f *Fake) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opens)
}

// Endpoints returns every endpoint passed to Open, in order.
func (f *Fake) Endpoints() []jira.Endpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.opens)
}

// CountCalls returns every issued count query, in order.
func (f *Fake) CountCalls() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.countCalls)
}

// ResetCalls clears the recorded calls.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens = nil
	f.countCalls = nil
}

// Open implements jira.Dialer.
func (f *Fake) Open(ctx context.Context, endpoint jira.Endpoint) (jira.Session, error) {
	if f.BeforeOpen != nil {
		f.BeforeOpen(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens = append(f.opens, endpoint)
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	return session{f}, nil
}

type session struct{ f *Fake }

func (s session) Projects(context.Context) ([]jira.Project, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if s.f.ProjectsErr != nil {
		return nil, s.f.ProjectsErr
	}
	return slices.Clone(s.f.projects), nil
}

func (s session) Statuses(context.Context) ([]jira.Status, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if s.f.StatusesErr != nil {
		return nil, s.f.StatusesErr
	}
	return slices.Clone(s.f.statuses), nil
}

func (s session) CountIssues(_ context.Context, project, status string) (int, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	q := Query{project, status}
	s.f.countCalls = append(s.f.countCalls, q)
	if fl := s.f.failures[q]; fl != nil && fl.remaining != 0 {
		if fl.remaining > 0 {
			fl.remaining--
		}
		return 0, fl.err
	}
	return s.f.counts[q], nil
}
