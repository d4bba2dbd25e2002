package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the post store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDatabase = "database"
	ComponentCache    = "cache"
	ComponentModel    = "model"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db    Pinger
	cache Pinger
	model ModelChecker
}

// New creates a Service. cache and model can be nil.
func New(db Pinger, cache Pinger, model ModelChecker) *Service {
	return &Service{db: db, cache: cache, model: model}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentDatabase] = result(s.db.Ping(ctx))
	if s.cache != nil {
		checks[ComponentCache] = result(s.cache.Ping(ctx))
	}
	if s.model != nil {
		checks[ComponentModel] = result(s.model.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[ComponentDatabase] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
