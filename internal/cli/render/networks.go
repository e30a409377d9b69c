package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the list of networks as a table
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Network", "Chain ID", "RPC URL", "Snapshots"})

	for _, info := range result.Networks {
		if info.Error != nil {
			t.AppendRow(table.Row{info.Name, "-", fmt.Sprintf("error: %v", info.Error), "-"})
			continue
		}

		snapshots := "no"
		if info.Network.Snapshots {
			snapshots = "yes"
		}
		t.AppendRow(table.Row{info.Name, info.Network.ChainID, info.Network.RPCURL, snapshots})
	}

	t.Render()
	return nil
}
