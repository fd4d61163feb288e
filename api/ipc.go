// Package api exposes the Gateway and Subnet actors over JSON-RPC.
// Methods that on a full chain node would hang off the tipset model (state
// reads at a tipset key, the mpool, the wallet) are adapted to read
// directly off an actor state store, since block production and chain sync
// are out of this module's scope.
package api

import (
	"context"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actors/gateway"
	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
	"github.com/consensus-shipyard/ipc-subnet-actors/subnetactor"
)

// IPCAPI is the read/write surface a node exposes over the hierarchy it
// participates in. The //perm: tags follow go-jsonrpc's permission
// convention (read < write < admin) even though this module doesn't wire
// an authenticator; a host embedding IPCAPI behind go-jsonrpc's
// permissioned handler gets the gate for free.
type IPCAPI interface {
	// IPCAddSubnetActor deploys a new subnet actor as a child of the caller's
	// own network. Deployment goes through the Init actor, which lives
	// outside this module's scope; a host wires Deploy to its own
	// init-actor client.
	IPCAddSubnetActor(ctx context.Context, wallet address.Address, params subnetactor.ConstructParams) (address.Address, error) //perm:write

	IPCReadGatewayState(ctx context.Context, gatewayAddr address.Address) (*gateway.GatewayState, error)                  //perm:read
	IPCReadSubnetActorState(ctx context.Context, sn sdk.SubnetID) (*subnetactor.SubnetState, error)                       //perm:read
	IPCListChildSubnets(ctx context.Context, gatewayAddr address.Address) ([]gateway.Subnet, error)                       //perm:read
	IPCGetGenesisEpochForSubnet(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID) (abi.ChainEpoch, error) //perm:read

	IPCGetCheckpoint(ctx context.Context, gatewayAddr address.Address, key cid.Cid) (*gateway.Checkpoint, error)                      //perm:read
	IPCGetPrevCheckpointForChild(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID) (cid.Cid, error)                  //perm:read
	IPCListCheckpoints(ctx context.Context, gatewayAddr address.Address, from, to abi.ChainEpoch) ([]*gateway.WindowCheckpoint, error) //perm:read
	IPCGetTopDownMsgs(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID, fromNonce uint64) ([]*gateway.StorableMsg, error) //perm:read

	IPCHasVotedCheckpoint(ctx context.Context, sn sdk.SubnetID, checkpoint cid.Cid, validator address.Address) (bool, error) //perm:read
}

// StateReader loads actor state by address/subnet id. A host backs this
// with whatever it uses to execute messages (an in-memory VM for tests, or
// a chain-synced blockstore in a fuller deployment) — IPCAPI only needs
// read access to the committed state tree.
type StateReader interface {
	LoadGateway(ctx context.Context, gatewayAddr address.Address) (*gateway.GatewayState, StateStore, error)
	LoadSubnet(ctx context.Context, sn sdk.SubnetID) (*subnetactor.SubnetState, StateStore, error)
}

// StateStore is the adt.Store surface IPCAPI needs to walk a loaded actor's
// HAMTs/AMTs; an in-memory VM and a chain-synced blockstore both satisfy
// this directly, since it's exactly specs-actors' own adt.Store.
type StateStore = adt.Store

// errSubnetNotFound reports a lookup miss against the Gateway's subnet
// registry, distinct from a StateReader/store failure.
func errSubnetNotFound(sn sdk.SubnetID) error {
	return xerrors.Errorf("subnet %s is not registered", sn)
}

// Deployer creates a new subnet actor via the Init actor. Left pluggable
// since actor deployment is a chain-submission concern outside this
// module's scope.
type Deployer func(ctx context.Context, wallet address.Address, params subnetactor.ConstructParams) (address.Address, error)

// Server implements IPCAPI directly against a StateReader, with no chain,
// mempool, or wallet underneath it.
type Server struct {
	Reader StateReader
	Deploy Deployer
}

var _ IPCAPI = (*Server)(nil)

func (s *Server) IPCAddSubnetActor(ctx context.Context, wallet address.Address, params subnetactor.ConstructParams) (address.Address, error) {
	return s.Deploy(ctx, wallet, params)
}

func (s *Server) IPCReadGatewayState(ctx context.Context, gatewayAddr address.Address) (*gateway.GatewayState, error) {
	st, _, err := s.Reader.LoadGateway(ctx, gatewayAddr)
	return st, err
}

func (s *Server) IPCReadSubnetActorState(ctx context.Context, sn sdk.SubnetID) (*subnetactor.SubnetState, error) {
	st, _, err := s.Reader.LoadSubnet(ctx, sn)
	return st, err
}

func (s *Server) IPCListChildSubnets(ctx context.Context, gatewayAddr address.Address) ([]gateway.Subnet, error) {
	st, store, err := s.Reader.LoadGateway(ctx, gatewayAddr)
	if err != nil {
		return nil, err
	}
	return st.ListSubnets(store)
}

func (s *Server) IPCGetGenesisEpochForSubnet(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID) (abi.ChainEpoch, error) {
	st, store, err := s.Reader.LoadGateway(ctx, gatewayAddr)
	if err != nil {
		return 0, err
	}
	sh, found, err := st.GetSubnet(store, sn)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errSubnetNotFound(sn)
	}
	return sh.GenesisEpoch, nil
}

func (s *Server) IPCGetCheckpoint(ctx context.Context, gatewayAddr address.Address, key cid.Cid) (*gateway.Checkpoint, error) {
	st, store, err := s.Reader.LoadGateway(ctx, gatewayAddr)
	if err != nil {
		return nil, err
	}
	ch, _, err := st.GetCommittedCheckpoint(store, key)
	return ch, err
}

func (s *Server) IPCGetPrevCheckpointForChild(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID) (cid.Cid, error) {
	st, store, err := s.Reader.LoadGateway(ctx, gatewayAddr)
	if err != nil {
		return cid.Undef, err
	}
	sh, found, err := st.GetSubnet(store, sn)
	if err != nil {
		return cid.Undef, err
	}
	if !found {
		return cid.Undef, errSubnetNotFound(sn)
	}
	return sh.PrevCheckpoint, nil
}

func (s *Server) IPCListCheckpoints(ctx context.Context, gatewayAddr address.Address, from, to abi.ChainEpoch) ([]*gateway.WindowCheckpoint, error) {
	st, store, err := s.Reader.LoadGateway(ctx, gatewayAddr)
	if err != nil {
		return nil, err
	}
	return st.ListCheckpoints(store, from, to)
}

func (s *Server) IPCGetTopDownMsgs(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID, fromNonce uint64) ([]*gateway.StorableMsg, error) {
	st, store, err := s.Reader.LoadGateway(ctx, gatewayAddr)
	if err != nil {
		return nil, err
	}
	sh, found, err := st.GetSubnet(store, sn)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errSubnetNotFound(sn)
	}
	return sh.TopDownMsgsFrom(store, fromNonce)
}

func (s *Server) IPCHasVotedCheckpoint(ctx context.Context, sn sdk.SubnetID, checkpoint cid.Cid, validator address.Address) (bool, error) {
	st, store, err := s.Reader.LoadSubnet(ctx, sn)
	if err != nil {
		return false, err
	}
	return st.HasVoted(store, checkpoint, validator)
}
