// Package saga runs a sequence of storage steps and undoes the completed ones
// in reverse order when a later step fails.
package saga

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Action is a forward step or a compensation
type Action func(ctx context.Context) error

// Observer is notified about compensation outcomes
type Observer interface {
	RecordCompensation(operation string, succeeded bool)
}

type step struct {
	name       string
	compensate Action
}

// Saga records compensations of completed steps
type Saga struct {
	operation string
	logger    *zap.Logger
	observer  Observer
	done      []step
}

// New starts a saga for the named operation. observer may be nil.
func New(operation string, logger *zap.Logger, observer Observer) *Saga {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saga{operation: operation, logger: logger, observer: observer}
}

// Step runs action. On success compensate (if not nil) is remembered; on
// failure every remembered compensation runs newest first and the action's
// error is returned unchanged.
func (s *Saga) Step(ctx context.Context, name string, action, compensate Action) error {
	if err := action(ctx); err != nil {
		s.logger.Warn("Saga step failed, compensating",
			zap.String("operation", s.operation),
			zap.String("step", name),
			zap.Error(err),
		)
		if cErr := s.Compensate(ctx); cErr != nil {
			return &CompensationError{Cause: err, Compensation: cErr}
		}
		return err
	}
	if compensate != nil {
		s.done = append(s.done, step{name: name, compensate: compensate})
	}
	return nil
}

// Compensate undoes every completed step, newest first. All compensations
// are attempted; their failures are joined.
func (s *Saga) Compensate(ctx context.Context) error {
	// the request context may already be cancelled; compensations must still run
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(s.done) - 1; i >= 0; i-- {
		st := s.done[i]
		if err := st.compensate(ctx); err != nil {
			s.logger.Error("Compensation failed",
				zap.String("operation", s.operation),
				zap.String("step", st.name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
			continue
		}
		s.logger.Info("Compensation applied",
			zap.String("operation", s.operation),
			zap.String("step", st.name),
		)
	}
	s.done = nil

	err := errors.Join(errs...)
	if s.observer != nil {
		s.observer.RecordCompensation(s.operation, err == nil)
	}
	return err
}

// CompensationError is returned when a step failed and undoing it failed too
type CompensationError struct {
	Cause        error
	Compensation error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("%v (compensation failed: %v)", e.Cause, e.Compensation)
}

func (e *CompensationError) Unwrap() error {
	return e.Cause
}
