package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/crucible/internal/adapters/network"
	"github.com/trebuchet-org/crucible/internal/adapters/node"
	"github.com/trebuchet-org/crucible/internal/config"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// NetworkSet provides network resolution and provider construction
var NetworkSet = wire.NewSet(
	config.NewNetworkResolver,
	network.NewResolver,
	wire.Bind(new(usecase.ProviderResolver), new(*network.Resolver)),
	wire.Bind(new(usecase.NetworkLister), new(*network.Resolver)),
)

// NodeSet provides the anvil dev node manager
var NodeSet = wire.NewSet(
	node.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*node.Manager)),
)

// AllAdapters groups every adapter set
var AllAdapters = wire.NewSet(
	NetworkSet,
	NodeSet,
)
