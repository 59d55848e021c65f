// Package services starts and stops the sibling processes that make up the
// deployment (frontend, backend, auth).
//
// Typical usage:
//
//	m := services.NewManager(services.FromConfig(&cfg.ServicesConfig), services.ExecRunner{}, log)
//	_ = m.StartAll(ctx)
//	// later...
//	_ = m.Stop(ctx, "anify-backend")
//
// Started services are tracked in memory while their script runs and are
// removed automatically when it exits. There is no health checking and no
// restart policy.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"anify-manager/internal/config"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownService is returned for names that are not configured.
var ErrUnknownService = errors.New("unknown service")

// ErrAlreadyRunning is returned by Start when the service is tracked as running.
var ErrAlreadyRunning = errors.New("service is already running")

// Service is one managed process.
type Service struct {
	Name   string
	Dir    string
	Script string
}

// FromConfig derives the managed services from the configuration.
func FromConfig(cfg *config.ServicesConfig) []Service {
	out := make([]Service, 0, len(cfg.Services))
	for _, name := range cfg.Services {
		out = append(out, Service{
			Name:   name,
			Dir:    cfg.ServiceDir(name),
			Script: cfg.ServiceStartCmd,
		})
	}
	return out
}

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager is safe for concurrent use.
type Manager struct {
	runner Runner
	log    zerolog.Logger

	order    []string
	services map[string]Service

	mu   sync.Mutex
	jobs map[string]*job
}

func NewManager(defs []Service, runner Runner, log zerolog.Logger) *Manager {
	m := &Manager{
		runner:   runner,
		log:      log,
		services: make(map[string]Service, len(defs)),
		jobs:     make(map[string]*job),
	}
	for _, s := range defs {
		if _, dup := m.services[s.Name]; !dup {
			m.order = append(m.order, s.Name)
		}
		m.services[s.Name] = s
	}
	return m
}

// Names returns the configured service names in configuration order.
func (m *Manager) Names() []string {
	return slices.Clone(m.order)
}

// Lookup returns the configured service with the given name.
func (m *Manager) Lookup(name string) (Service, error) {
	s, ok := m.services[name]
	if !ok {
		return Service{}, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	return s, nil
}

// Start launches the service's script in the background.
func (m *Manager) Start(name string) error {
	svc, err := m.Lookup(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if _, running := m.jobs[name]; running {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j
	m.mu.Unlock()

	m.log.Info().Str("service", name).Str("dir", svc.Dir).Msg("Starting service")

	go func() {
		defer close(j.done)
		defer cancel()

		err := m.runner.Run(ctx, svc.Dir, "sh", "-c", svc.Script)
		switch {
		case err != nil && ctx.Err() == nil:
			m.log.Error().Err(err).Str("service", name).Msg("Service exited with error")
		default:
			m.log.Info().Str("service", name).Msg("Service exited")
		}

		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// StartAll launches every configured service concurrently. It returns the
// first launch error; the other services are still started.
func (m *Manager) StartAll(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, name := range m.order {
		name := name
		g.Go(func() error { return m.Start(name) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	m.log.Info().Strs("services", m.order).Msg("Started services")
	return nil
}

// RunAll runs every configured service in the foreground and blocks until all
// of them exit or ctx is cancelled.
func (m *Manager) RunAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range m.order {
		name := name
		svc := m.services[name]
		g.Go(func() error {
			m.log.Info().Str("service", name).Msg("Starting service")
			if err := m.runner.Run(gctx, svc.Dir, "sh", "-c", svc.Script); err != nil {
				return fmt.Errorf("run %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Stop asks every process with the service's name to terminate.
func (m *Manager) Stop(ctx context.Context, name string) error {
	return m.signal(ctx, name, "killall", name)
}

// Kill force-terminates every process with the service's name.
func (m *Manager) Kill(ctx context.Context, name string) error {
	return m.signal(ctx, name, "killall", "-9", name)
}

// KillAll force-terminates every configured service, collecting errors.
func (m *Manager) KillAll(ctx context.Context) error {
	var errs []error
	for _, name := range m.order {
		if err := m.Kill(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) signal(ctx context.Context, name string, bin string, args ...string) error {
	if _, err := m.Lookup(name); err != nil {
		return err
	}

	m.mu.Lock()
	if j, ok := m.jobs[name]; ok {
		j.cancel()
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	m.log.Info().Str("service", name).Str("cmd", bin+" "+strings.Join(args, " ")).Msg("Signalling service")
	if err := m.runner.Run(ctx, "", bin, args...); err != nil {
		return fmt.Errorf("%s %s: %w", bin, name, err)
	}
	return nil
}

// Running returns the names of services started by this manager whose
// scripts have not exited yet, sorted.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// IsRunning reports whether the named service is tracked as running.
func (m *Manager) IsRunning(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[name]
	return ok
}

// Status returns a human-readable summary of running services.
func (m *Manager) Status() string {
	active := m.Running()
	if len(active) == 0 {
		return "No services are running."
	}
	return fmt.Sprintf("Running services: %s", strings.Join(active, ", "))
}

// Wait blocks until the named job exits or ctx is done. It returns
// immediately when the service is not tracked.
func (m *Manager) Wait(ctx context.Context, name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
