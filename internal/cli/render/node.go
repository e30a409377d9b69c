package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// NodeRenderer renders dev node operation results
type NodeRenderer struct {
	out io.Writer
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer) *NodeRenderer {
	return &NodeRenderer{out: out}
}

// RenderNodeResult renders the result of a node management operation
func (r *NodeRenderer) RenderNodeResult(result *usecase.ManageNodeResult) error {
	if result.Message != "" {
		color.New(color.FgGreen).Fprintln(r.out, result.Message)
	}

	if result.Operation == "status" && result.Status != nil {
		status := result.Status
		if status.Running {
			color.New(color.FgGreen).Fprintf(r.out, "Status: running (PID %d)\n", status.PID)
			fmt.Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
			if status.RPCHealthy {
				color.New(color.FgGreen).Fprintln(r.out, "RPC Health: responding")
			} else {
				color.New(color.FgRed).Fprintf(r.out, "RPC Health: not responding (%s)\n", status.Error)
			}
		} else {
			color.New(color.FgRed).Fprintln(r.out, "Status: not running")
		}
		fmt.Fprintf(r.out, "Log file: %s\n", status.LogFile)
	}

	return nil
}
