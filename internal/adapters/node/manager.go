// Package node manages local anvil dev node instances.
package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/trebuchet-org/crucible/internal/domain"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

const (
	// DefaultPort is anvil's default listen port
	DefaultPort = "8545"

	startupWait = 2 * time.Second
)

// Manager starts and stops anvil processes, tracking them through pid
// files under /tmp.
type Manager struct {
	httpClient *http.Client
}

// NewManager creates a new anvil node manager
func NewManager() *Manager {
	return &Manager{
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Start launches an anvil instance and waits for it to come up
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	applyDefaults(instance)

	if m.isRunning(instance) {
		return fmt.Errorf("anvil '%s' is already running (pid file at %s)", instance.Name, instance.PidFile)
	}

	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	if instance.ForkURL != "" {
		args = append(args, "--fork-url", instance.ForkURL)
	}

	cmd := exec.Command("anvil", args...)

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	if err := writePidFile(instance.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write pid file: %w", err)
	}

	// Give anvil a moment before the first health probe
	select {
	case <-time.After(startupWait):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := m.checkRPCHealth(instance); err != nil {
		return fmt.Errorf("anvil started but RPC is not responding: %w", err)
	}

	return nil
}

// Stop terminates a running anvil instance
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	applyDefaults(instance)

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("anvil '%s' is not running", instance.Name)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pid file: %w", err)
	}

	return nil
}

// GetStatus reports whether the instance is running and healthy
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	applyDefaults(instance)

	status := &domain.NodeStatus{
		LogFile: instance.LogFile,
		RPCURL:  fmt.Sprintf("http://localhost:%s", instance.Port),
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return status, nil
	}

	if !processAlive(pid) {
		return status, nil
	}

	status.Running = true
	status.PID = pid

	if err := m.checkRPCHealth(instance); err != nil {
		status.Error = err.Error()
	} else {
		status.RPCHealthy = true
	}

	return status, nil
}

// StreamLogs copies the instance's log file to the writer, following
// appended output until the context is cancelled.
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	applyDefaults(instance)

	f, err := os.Open(instance.LogFile)
	if err != nil {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}
	defer f.Close()

	for {
		if _, err := io.Copy(writer, f); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// isRunning checks the pid file and probes the process
func (m *Manager) isRunning(instance *domain.NodeInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return false
	}
	return processAlive(pid)
}

// checkRPCHealth issues eth_blockNumber against the instance
func (m *Manager) checkRPCHealth(instance *domain.NodeInstance) error {
	reqBody, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "eth_blockNumber",
		"params":  []any{},
		"id":      1,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%s", instance.Port)
	resp, err := m.httpClient.Post(url, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to reach RPC: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var rpcResp struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("RPC error: %s", rpcResp.Error.Message)
	}

	return nil
}

func applyDefaults(instance *domain.NodeInstance) {
	if instance.Name == "" {
		instance.Name = "default"
	}
	if instance.Port == "" {
		instance.Port = DefaultPort
	}
	if instance.PidFile == "" {
		instance.PidFile = fmt.Sprintf("/tmp/crucible-anvil-%s-%s.pid", instance.Name, instance.Port)
	}
	if instance.LogFile == "" {
		instance.LogFile = fmt.Sprintf("/tmp/crucible-anvil-%s-%s.log", instance.Name, instance.Port)
	}
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid in file: %s", string(data))
	}

	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

var _ usecase.NodeManager = (*Manager)(nil)
