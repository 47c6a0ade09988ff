// Package atlascli implements the Atlas control-plane boundary by shelling
// out to the atlas CLI, the same transport an operator would use by hand.
package atlascli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

const (
	defaultBinary  = "atlas"
	checkTimeout   = 30 * time.Second
	commandTimeout = 60 * time.Second
)

// runner executes one CLI invocation and returns its output streams. It is a
// seam for tests; the default runs the real binary.
type runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// Client talks to the Atlas alerts-settings API through the atlas CLI.
type Client struct {
	binary string
	run    runner
	logger *slog.Logger
}

// NewClient creates a CLI-backed AlertSettingsAPI implementation.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		binary: defaultBinary,
		run:    execRunner,
		logger: logger.With("component", "atlas_cli"),
	}
}

// EnsureAvailable verifies the CLI is installed and authenticated.
func (c *Client) EnsureAvailable(ctx context.Context) error {
	versionCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	stdout, _, err := c.run(versionCtx, c.binary, "--version")
	if err != nil {
		return fmt.Errorf("atlas CLI is not installed or not runnable: %w", err)
	}
	c.logger.Debug("atlas CLI present", "version", strings.TrimSpace(string(stdout)))

	authCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if _, _, err := c.run(authCtx, c.binary, "config", "list"); err != nil {
		return fmt.Errorf("atlas CLI is not authenticated, run 'atlas config init' first: %w", err)
	}
	return nil
}

// Create submits one configuration file and returns the created alert ID.
func (c *Client) Create(ctx context.Context, configPath, projectID string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	stdout, stderr, err := c.run(cmdCtx, c.binary,
		"alerts", "settings", "create",
		"--file", configPath,
		"--projectId", projectID,
		"--output", "json",
	)
	if err != nil {
		return "", fmt.Errorf("create alert: %s", cliError(stdout, stderr, err))
	}

	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(stdout, &response); err != nil {
		// The CLI reported success; a non-JSON body only costs tracking.
		c.logger.Warn("could not parse create response", "error", err)
		return "", nil
	}
	return response.ID, nil
}

// List returns every alert setting on the project. The CLI has emitted both
// a paged object and a bare array across versions; both are accepted.
func (c *Client) List(ctx context.Context, projectID string) ([]domain.AlertSummary, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	stdout, stderr, err := c.run(cmdCtx, c.binary,
		"alerts", "settings", "list",
		"--projectId", projectID,
		"--output", "json",
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %s", cliError(stdout, stderr, err))
	}

	// A paged object without a results key means no alerts.
	var paged struct {
		Results []domain.AlertSummary `json:"results"`
	}
	if err := json.Unmarshal(stdout, &paged); err == nil {
		return paged.Results, nil
	}

	var bare []domain.AlertSummary
	if err := json.Unmarshal(stdout, &bare); err != nil {
		return nil, fmt.Errorf("parse alert list: %w", err)
	}
	return bare, nil
}

// Delete removes one alert setting, mapping control-plane "gone already"
// answers to domain.ErrAlertNotFound.
func (c *Client) Delete(ctx context.Context, alertID, projectID string) error {
	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	_, stderr, err := c.run(cmdCtx, c.binary,
		"alerts", "settings", "delete", alertID,
		"--projectId", projectID,
		"--force",
	)
	if err != nil {
		msg := string(stderr)
		if strings.Contains(msg, "NOT_FOUND") || strings.Contains(msg, "404") {
			return domain.ErrAlertNotFound
		}
		return fmt.Errorf("delete alert %s: %s", alertID, cliError(nil, stderr, err))
	}
	return nil
}

// cliError prefers the CLI's own message over the bare exit status.
func cliError(stdout, stderr []byte, err error) string {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(string(stdout)); msg != "" {
		return msg
	}
	return err.Error()
}
