// Package ping checks host reachability with the operating system's ping utility.
package ping

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	logx "github.com/netops-assistant/server/pkg/logger"
)

type Config struct {
	Count   int           `envconfig:"PING_COUNT" default:"2"`
	Timeout time.Duration `envconfig:"PING_TIMEOUT" default:"5s"`
}

// Runner executes a command and returns its exit error, if any.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs the command via os/exec with output discarded.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

type Pinger struct {
	count   int
	timeout time.Duration
	run     Runner
}

// New creates a Pinger. A nil runner uses ExecRunner.
func New(cfg Config, run Runner) *Pinger {
	if cfg.Count <= 0 {
		cfg.Count = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if run == nil {
		run = ExecRunner
	}
	return &Pinger{count: cfg.Count, timeout: cfg.Timeout, run: run}
}

// Reachable pings host and reports whether it answered. Spawn failures,
// non-zero exits and timeouts all count as unreachable.
func (p *Pinger) Reachable(ctx context.Context, host string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	countFlag := "-c"
	if runtime.GOOS == "windows" {
		countFlag = "-n"
	}
	if err := p.run(ctx, "ping", countFlag, strconv.Itoa(p.count), host); err != nil {
		logx.Debug().Str("host", host).Err(err).Msg("ping failed")
		return false
	}
	return true
}
