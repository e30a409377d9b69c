package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/trebuchet-org/crucible/internal/domain"
)

// ManageNode handles anvil dev node management operations
type ManageNode struct {
	nodeManager NodeManager
	progress    ProgressSink
}

// NewManageNode creates the node management use case
func NewManageNode(nodeManager NodeManager, progress ProgressSink) *ManageNode {
	return &ManageNode{
		nodeManager: nodeManager,
		progress:    progress,
	}
}

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation string // start, stop, restart, status, logs
	Name      string
	Port      string
	ChainID   string
	ForkURL   string
}

// ManageNodeResult contains the result of node operations
type ManageNodeResult struct {
	Operation string
	Instance  *domain.NodeInstance
	Status    *domain.NodeStatus
	Message   string
}

// Run performs the node management operation
func (m *ManageNode) Run(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance := &domain.NodeInstance{
		Name:    params.Name,
		Port:    params.Port,
		ChainID: params.ChainID,
		ForkURL: params.ForkURL,
	}

	switch params.Operation {
	case "start":
		return m.start(ctx, instance)
	case "stop":
		return m.stop(ctx, instance)
	case "restart":
		if _, err := m.stop(ctx, instance); err == nil {
			m.progress.Info("Stopped running instance")
		}
		return m.start(ctx, instance)
	case "status":
		return m.status(ctx, instance)
	case "logs":
		return m.logs(ctx, instance)
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

func (m *ManageNode) start(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Start(fmt.Sprintf("Starting anvil node '%s'...", instance.Name))
	err := m.nodeManager.Start(ctx, instance)
	m.progress.Stop()
	if err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err := m.nodeManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, err
	}

	return &ManageNodeResult{
		Operation: "start",
		Instance:  instance,
		Status:    status,
		Message:   fmt.Sprintf("Anvil started with PID %d", status.PID),
	}, nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	if err := m.nodeManager.Stop(ctx, instance); err != nil {
		return nil, err
	}

	return &ManageNodeResult{
		Operation: "stop",
		Instance:  instance,
		Message:   fmt.Sprintf("Anvil '%s' stopped", instance.Name),
	}, nil
}

func (m *ManageNode) status(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	status, err := m.nodeManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, err
	}

	return &ManageNodeResult{
		Operation: "status",
		Instance:  instance,
		Status:    status,
	}, nil
}

func (m *ManageNode) logs(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	if err := m.nodeManager.StreamLogs(ctx, instance, os.Stdout); err != nil {
		return nil, err
	}

	return &ManageNodeResult{
		Operation: "logs",
		Instance:  instance,
	}, nil
}
