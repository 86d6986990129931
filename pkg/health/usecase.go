package health

import (
	"context"
	"errors"
	"fmt"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

const statusOK = "ok"

// Report lists every storage backend that was checked with "ok" or its failure.
// An empty Backends map means the service runs on in-memory stores only.
type Report struct {
	Ready    bool              `json:"-"`
	Backends map[string]string `json:"backends"`
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) (Report, error)
}

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

// Ready runs every checker, so one report shows all failing backends at once.
func (s *service) Ready(ctx context.Context) (Report, error) {
	rep := Report{Ready: true, Backends: make(map[string]string, len(s.checkers))}
	var errs []error
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			rep.Ready = false
			rep.Backends[ch.Name()] = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		rep.Backends[ch.Name()] = statusOK
	}
	return rep, errors.Join(errs...)
}
