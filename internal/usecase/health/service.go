package health

import (
	"context"
	"sort"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates that some components fail.
	Degraded Status = "degraded"
	// Unhealthy indicates that every component fails.
	Unhealthy Status = "error"
)

// CheckResult is a single component outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type component struct {
	name string
	p    Pinger
}

// Service coordinates health checks.
type Service struct {
	components []component
}

// New creates a Service that always checks the database.
func New(database Pinger) *Service {
	return &Service{components: []component{{name: "database", p: database}}}
}

// WithCheck adds a named component. Nil pingers are ignored.
func (s *Service) WithCheck(name string, p Pinger) *Service {
	if p != nil {
		s.components = append(s.components, component{name: name, p: p})
	}
	return s
}

// Names lists registered components in sorted order.
func (s *Service) Names() []string {
	out := make([]string, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c.name)
	}
	sort.Strings(out)
	return out
}

// Check pings every component.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.components))
	failed := 0
	for _, c := range s.components {
		if err := c.p.Ping(ctx); err != nil {
			checks[c.name] = CheckError
			failed++
			continue
		}
		checks[c.name] = CheckOK
	}

	status := Healthy
	switch {
	case failed == len(s.components):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}
