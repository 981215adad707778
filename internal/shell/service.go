package shell

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"

	"refract/internal/domain"
	"refract/internal/eventbus"
)

// runTimeout bounds a single command execution triggered over the bus
const runTimeout = 120 * time.Second

// Service executes configured command entries
type Service interface {
	Run(ctx context.Context, entry domain.Entry) (domain.RunResult, error)
}

// service is the concrete implementation
type service struct {
	bus        eventbus.EventBus
	baseDir    string
	workerPool chan struct{} // Semaphore for limiting concurrent commands
}

// NewService creates a shell service. Commands run in entry.Dir when set,
// otherwise in baseDir.
func NewService(bus eventbus.EventBus, baseDir string) Service {
	s := &service{
		bus:        bus,
		baseDir:    baseDir,
		workerPool: make(chan struct{}, 4), // Limit to 4 concurrent commands
	}

	// Subscribe to run requests
	bus.Subscribe(eventbus.EventRunRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.RunRequestedEvent); ok {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
				defer cancel()

				if _, err := s.Run(ctx, event.Entry); err != nil {
					log.Printf("Run failed for %q: %v", event.Entry.Name, err)
				}
			}()
		}
	})

	return s
}

// Run executes the entry's command line and returns the captured result.
// A non-zero exit lands in both the result and the returned error.
func (s *service) Run(ctx context.Context, entry domain.Entry) (domain.RunResult, error) {
	// Acquire worker slot
	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-ctx.Done():
		return domain.RunResult{Entry: entry}, ctx.Err()
	}

	s.publish(eventbus.RunStartedEvent{Entry: entry})

	startedAt := time.Now()
	cmd := exec.CommandContext(ctx, "sh", "-c", entry.Command)
	cmd.Dir = entry.Dir
	if cmd.Dir == "" {
		cmd.Dir = s.baseDir
	}

	output, err := cmd.CombinedOutput()

	result := domain.RunResult{
		Entry:     entry,
		Output:    string(output),
		Duration:  time.Since(startedAt),
		StartedAt: startedAt,
	}
	if err != nil {
		result.Err = err.Error()
	}

	s.publish(eventbus.RunCompletedEvent{Result: result})

	if err != nil {
		s.publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("%q failed", entry.Name),
			Err:     err,
		})
		return result, fmt.Errorf("command %q failed: %w", entry.Name, err)
	}

	return result, nil
}

func (s *service) publish(event eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
