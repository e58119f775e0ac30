package main

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/exec"
	"time"

	"daotask/internal/api"
	"daotask/internal/config"
)

const (
	serverStartTimeout = 3 * time.Second
	serverPollInterval = 100 * time.Millisecond
	serverPingTimeout  = 500 * time.Millisecond
)

// withClient runs fn against the configured API, starting a local server
// for the duration of the call when none answers.
func withClient(ctx context.Context, cfg *config.Config, fn func(*api.Client) error) error {
	cleanup, err := ensureServer(ctx, cfg)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	return fn(api.NewClient(cfg.APIURL))
}

func ensureServer(ctx context.Context, cfg *config.Config) (func(), error) {
	client := api.NewClient(cfg.APIURL)
	pingCtx, cancel := context.WithTimeout(ctx, serverPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx); err == nil {
		return nil, nil
	}

	componentLogger("client").Debug("starting local server", "api_url", cfg.APIURL, "db", cfg.DBPath)
	cmd, err := startServerProcess(cfg)
	if err != nil {
		return nil, err
	}

	stop := func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
	if err := waitForServer(ctx, client, serverStartTimeout); err != nil {
		stop()
		return nil, err
	}
	return stop, nil
}

func startServerProcess(cfg *config.Config) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(exe, "srv")
	cmd.Env = append(os.Environ(),
		"DAOTASK_DB="+cfg.DBPath,
		"DAOTASK_API_URL="+cfg.APIURL,
	)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func waitForServer(ctx context.Context, client *api.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		pingCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		err := client.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if !isConnRefused(err) {
			// Port is taken by something that is not a daotask server.
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(serverPollInterval):
		}
	}
	return errors.New("server did not start in time")
}

func isConnRefused(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
