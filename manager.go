package queuectl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/queuectl/queuectl/internal"
	"github.com/queuectl/queuectl/internal/storage"
)

// ManagerConfig configures a Manager.
//
// Count is the number of worker processes to maintain.
//
// PollInterval, CommandTimeout and BackoffBase are not read by Manager:
// the argv of each worker process is built entirely by the childArg
// function passed to NewManager.
//
// PIDFile, if non-empty, receives the manager's own PID while running
// and is removed on clean shutdown.
//
// AbandonedThreshold is passed to the one-shot recovery sweep Start
// performs before spawning workers.
//
// GraceTimeout is the timeout the installed SIGTERM/SIGINT handler
// passes to Stop (30 seconds when zero). A direct call to Stop uses its
// own timeout argument instead.
type ManagerConfig struct {
	Count              int
	PollInterval       time.Duration
	CommandTimeout     time.Duration
	BackoffBase        int
	AbandonedThreshold int
	PIDFile            string
	GraceTimeout       time.Duration
}

// Manager supervises a fixed-size pool of worker OS processes.
//
// Unlike Worker, which processes jobs in its own process, Manager never
// touches job storage directly except for the startup recovery sweep:
// it forks N copies of the running executable (re-invoking it with a
// hidden subcommand that runs a single Worker) and supervises them as
// independent processes, restarting any that exit unexpectedly while
// the manager itself is still running.
//
// Manager has the same strict lifecycle as the rest of the package:
// Start may only be called once, and Stop sends SIGTERM to every child,
// waits up to its timeout, then sends SIGKILL to stragglers.
type Manager struct {
	lcBase
	cfg      ManagerConfig
	db       *storage.Store
	log      *slog.Logger
	childArg func(workerIndex int) []string

	mu       sync.Mutex
	children []*exec.Cmd
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	doneChan internal.DoneChan
}

// NewManager creates a Manager. childArg builds the argv (excluding
// argv[0]) used to re-invoke the current executable as a single worker
// process; it is given the 0-based index of the child being spawned so
// distinct children can be told apart in logs if desired.
func NewManager(cfg ManagerConfig, db *storage.Store, log *slog.Logger, childArg func(workerIndex int) []string) *Manager {
	return &Manager{
		cfg:      cfg,
		db:       db,
		log:      log,
		childArg: childArg,
	}
}

// Start performs a one-shot recovery sweep for leases abandoned by a
// previous, uncleanly terminated run, writes the PID file, spawns
// cfg.Count worker processes, and installs a SIGTERM/SIGINT handler
// that triggers graceful shutdown.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.tryStart(); err != nil {
		return err
	}

	n, err := m.db.RecoverAbandoned(ctx, m.cfg.AbandonedThreshold)
	if err != nil {
		return fmt.Errorf("recover abandoned leases: %w", err)
	}
	if n > 0 {
		m.log.Info("recovered abandoned leases", "count", n)
	}

	if m.cfg.PIDFile != "" {
		if err := os.WriteFile(m.cfg.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
			return fmt.Errorf("write pid file: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.doneChan = internal.WrapWaitGroup(&m.wg)

	for i := 0; i < m.cfg.Count; i++ {
		if err := m.spawn(runCtx, i); err != nil {
			cancel()
			return fmt.Errorf("spawn worker %d: %w", i, err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		select {
		case sig := <-sigCh:
			m.log.Info("received signal, shutting down workers", "signal", sig)
			if err := m.Stop(m.graceTimeout()); err != nil {
				m.log.Error("shutdown error", "err", err)
			}
		case <-runCtx.Done():
		}
		signal.Stop(sigCh)
	}()

	return nil
}

// Wait blocks until every worker process has exited following a call
// to Stop (directly or via the installed signal handler). It is
// intended for a foreground CLI command that must not return before
// shutdown completes.
func (m *Manager) Wait() {
	<-m.doneChan
}

func (m *Manager) graceTimeout() time.Duration {
	if m.cfg.GraceTimeout > 0 {
		return m.cfg.GraceTimeout
	}
	return 30 * time.Second
}

func (m *Manager) spawn(ctx context.Context, index int) error {
	cmd := exec.Command(os.Args[0], m.childArg(index)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return err
	}

	m.mu.Lock()
	m.children = append(m.children, cmd)
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := cmd.Wait()
		if ctx.Err() != nil {
			return // expected exit during shutdown
		}
		if err != nil {
			m.log.Warn("worker process exited unexpectedly, restarting", "index", index, "err", err)
		} else {
			m.log.Warn("worker process exited unexpectedly, restarting", "index", index)
		}
		if respawnErr := m.spawn(ctx, index); respawnErr != nil {
			m.log.Error("failed to restart worker", "index", index, "err", respawnErr)
		}
	}()
	return nil
}

// Stop signals every child process to terminate and waits up to
// timeout for them to exit, force-killing any stragglers afterward.
func (m *Manager) Stop(timeout time.Duration) error {
	err := m.tryStop(timeout, func() internal.DoneChan {
		m.cancel()
		m.mu.Lock()
		children := append([]*exec.Cmd(nil), m.children...)
		m.mu.Unlock()
		for _, c := range children {
			if c.Process != nil {
				_ = syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
			}
		}
		return m.doneChan
	})

	if err == ErrStopTimeout {
		m.mu.Lock()
		children := append([]*exec.Cmd(nil), m.children...)
		m.mu.Unlock()
		for _, c := range children {
			if c.Process != nil {
				_ = syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
			}
		}
	}

	if m.cfg.PIDFile != "" {
		_ = os.Remove(m.cfg.PIDFile)
	}
	return err
}
