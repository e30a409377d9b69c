package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// CheckRenderer renders network capability check results
type CheckRenderer struct {
	out io.Writer
}

// NewCheckRenderer creates a new check renderer
func NewCheckRenderer(out io.Writer) *CheckRenderer {
	return &CheckRenderer{out: out}
}

// RenderCheckResult renders the result of a capability probe
func (r *CheckRenderer) RenderCheckResult(result *usecase.CheckNetworkResult) error {
	fmt.Fprintf(r.out, "Network:  %s (chain ID %d)\n", result.Network.Name, result.Network.ChainID)
	fmt.Fprintf(r.out, "RPC URL:  %s\n", result.Network.RPCURL)

	if result.Isolated {
		color.New(color.FgGreen).Fprintln(r.out, "Isolation: full (snapshot/revert supported)")
		return nil
	}

	color.New(color.FgYellow).Fprintln(r.out, "Isolation: degraded (tests will share state)")
	if result.Reason != "" {
		fmt.Fprintf(r.out, "Reason:   %s\n", result.Reason)
	}
	return nil
}
