package gateway

//go:generate go run ./gen/gen.go

import (
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

// DefaultCheckpointPeriod is the number of epochs between window
// checkpoints when a subnet doesn't pick its own (subject to
// MinCheckpointPeriod).
const DefaultCheckpointPeriod = abi.ChainEpoch(10)

// MinCheckpointPeriod is the shortest checkpoint window this Gateway will
// accept.
const MinCheckpointPeriod = abi.ChainEpoch(10)

// CrossMsgsAMTBitwidth sizes the AMTs backing top-down queues and
// bottom-up batches.
const CrossMsgsAMTBitwidth = 3

// CrossMsgFee is the fixed per-cross-message charge, in nano-token, paid
// to the validators securing the propagation path.
var CrossMsgFee = abi.NewTokenAmount(100)

// DefaultMinCollateral is the default collateral a subnet must hold to be
// Active, overridable per-Gateway via ConstructorParams.
var DefaultMinCollateral = abi.NewTokenAmount(1e18)

// Status describes where a registered subnet is in its lifecycle.
type Status uint64

const (
	Active Status = iota
	Inactive
	Killed
)

// Subnet is the Gateway-held registry entry for a single immediate child
// subnet, keyed by its SubnetID.
type Subnet struct {
	ID             sdk.SubnetID
	ParentID       sdk.SubnetID
	Stake          abi.TokenAmount
	Status         Status
	CircSupply     abi.TokenAmount
	PrevCheckpoint cid.Cid // NoPreviousCheck if none committed yet
	TopDownNonce   uint64  // next nonce to assign to a top-down message addressed to this subnet
	TopDownMsgs    cid.Cid // AMT[nonce]StorableMsg
	GenesisEpoch   abi.ChainEpoch
}

// GatewayState is the root persisted state of the Gateway actor.
type GatewayState struct {
	NetworkName   sdk.SubnetID
	MinCollateral abi.TokenAmount
	TotalSubnets  uint64

	Subnets cid.Cid // HAMT[SubnetID]Subnet

	CheckPeriod       abi.ChainEpoch
	WindowChecks      cid.Cid // HAMT[epoch]WindowCheckpoint
	CrossMsgsRegistry cid.Cid // HAMT[cid]CrossMsgsBundle, content-addressed bundles referenced by checkpoints
	Checkpoints       cid.Cid // HAMT[cid]Checkpoint, committed child checkpoints referenced by Subnet.PrevCheckpoint

	BottomUpNonce uint64  // next nonce to assign to a bottom-up message terminating at this network
	BottomUpMsgs  cid.Cid // AMT[nonce]StorableMsg, messages ready for ApplyMessage

	AppliedTopDownNonce  uint64
	AppliedBottomUpNonce uint64

	Postbox cid.Cid // HAMT[cid]PostBoxItem
}

// ConstructorParams configures a freshly-deployed Gateway.
type ConstructorParams struct {
	NetworkName      string
	CheckpointPeriod uint64
	MinCollateral    abi.TokenAmount
}

// ConstructState builds the zero-value GatewayState for a new network.
func ConstructState(store adt.Store, params *ConstructorParams) (*GatewayState, error) {
	emptySubnets, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty subnets map: %w", err)
	}
	emptyWindows, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty window checkpoints map: %w", err)
	}
	emptyRegistry, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty cross-msgs registry: %w", err)
	}
	emptyCheckpoints, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty checkpoints registry: %w", err)
	}
	emptyBottomUp, err := adt.StoreEmptyArray(store, CrossMsgsAMTBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty bottom-up AMT: %w", err)
	}
	emptyPostbox, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty postbox: %w", err)
	}

	period := abi.ChainEpoch(params.CheckpointPeriod)
	if period < MinCheckpointPeriod {
		period = DefaultCheckpointPeriod
	}

	minCollateral := params.MinCollateral
	if minCollateral.IsZero() {
		minCollateral = DefaultMinCollateral
	}

	return &GatewayState{
		NetworkName:          sdk.SubnetID(params.NetworkName),
		MinCollateral:        minCollateral,
		Subnets:              emptySubnets,
		CheckPeriod:          period,
		WindowChecks:         emptyWindows,
		CrossMsgsRegistry:    emptyRegistry,
		Checkpoints:          emptyCheckpoints,
		BottomUpMsgs:         emptyBottomUp,
		AppliedBottomUpNonce: ^uint64(0), // first applied message carries nonce 0
		Postbox:              emptyPostbox,
	}, nil
}

func subnetKey(id sdk.SubnetID) abi.Keyer {
	return stringKey(id.String())
}

type stringKey string

func (k stringKey) Key() string { return string(k) }

// GetSubnet loads a registered subnet by ID.
func (st *GatewayState) GetSubnet(s adt.Store, id sdk.SubnetID) (*Subnet, bool, error) {
	subnets, err := adt.AsMap(s, st.Subnets, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load subnets: %w", err)
	}
	var out Subnet
	found, err := subnets.Get(subnetKey(id), &out)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get subnet %s: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}
	return &out, true, nil
}

// ListSubnets returns every subnet currently registered with this Gateway,
// backing the api package's IPCListChildSubnets.
func (st *GatewayState) ListSubnets(s adt.Store) ([]Subnet, error) {
	subnets, err := adt.AsMap(s, st.Subnets, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to load subnets: %w", err)
	}
	var out []Subnet
	var sh Subnet
	err = subnets.ForEach(&sh, func(string) error {
		out = append(out, sh)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to iterate subnets: %w", err)
	}
	return out, nil
}

// TopDownMsgsFrom returns sh's enqueued top-down messages with nonce >=
// fromNonce, in nonce order, backing the api package's IPCGetTopDownMsgs.
func (sh *Subnet) TopDownMsgsFrom(s adt.Store, fromNonce uint64) ([]*StorableMsg, error) {
	queue, err := adt.AsArray(s, sh.TopDownMsgs, CrossMsgsAMTBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to load top-down queue: %w", err)
	}
	var out []*StorableMsg
	var msg StorableMsg
	err = queue.ForEach(&msg, func(i int64) error {
		if uint64(i) < fromNonce {
			return nil
		}
		cp := msg
		out = append(out, &cp)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to iterate top-down queue: %w", err)
	}
	return out, nil
}

func (st *GatewayState) flushSubnet(rt runtime.Runtime, sh *Subnet) {
	subnets, err := adt.AsMap(adt.AsStore(rt), st.Subnets, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load subnets")
	err = subnets.Put(subnetKey(sh.ID), sh)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to put subnet")
	st.Subnets, err = subnets.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush subnets")
}

func (st *GatewayState) deleteSubnet(rt runtime.Runtime, id sdk.SubnetID) {
	subnets, err := adt.AsMap(adt.AsStore(rt), st.Subnets, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load subnets")
	err = subnets.Delete(subnetKey(id))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to delete subnet")
	st.Subnets, err = subnets.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush subnets")
}

// registerSubnet inserts a brand-new Subnet entry, Active iff stake already
// clears MinCollateral.
func (st *GatewayState) registerSubnet(rt runtime.Runtime, id sdk.SubnetID, stake abi.TokenAmount) {
	emptyTopDown, err := adt.StoreEmptyArray(adt.AsStore(rt), CrossMsgsAMTBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to create empty top-down AMT")

	status := Inactive
	if stake.GreaterThanEqual(st.MinCollateral) {
		status = Active
	}

	sh := &Subnet{
		ID:             id,
		ParentID:       st.NetworkName,
		Stake:          stake,
		Status:         status,
		CircSupply:     big.Zero(),
		PrevCheckpoint: NoPreviousCheck,
		TopDownMsgs:    emptyTopDown,
		GenesisEpoch:   rt.CurrEpoch(),
	}
	st.TotalSubnets++
	st.flushSubnet(rt, sh)
}

// addStake adjusts sh.Stake by delta (which may be negative, as with
// ReleaseStake) and recomputes Status against the collateral threshold.
func (sh *Subnet) addStake(rt runtime.Runtime, st *GatewayState, delta abi.TokenAmount) {
	newStake := big.Add(sh.Stake, delta)
	if newStake.LessThan(big.Zero()) {
		rt.Abortf(exitcode.ErrIllegalState, "stake delta would drive subnet %s stake negative", sh.ID)
	}
	sh.Stake = newStake
	if sh.Stake.GreaterThanEqual(st.MinCollateral) {
		if sh.Status == Inactive {
			sh.Status = Active
		}
	} else if sh.Status == Active {
		sh.Status = Inactive
	}
	st.flushSubnet(rt, sh)
}

// GetWindowCheckpoint loads (or synthesizes) the checkpoint accumulator for
// the window containing epoch.
func (st *GatewayState) GetWindowCheckpoint(s adt.Store, epoch abi.ChainEpoch) (*WindowCheckpoint, error) {
	windowEpoch := windowEpoch(epoch, st.CheckPeriod)
	windows, err := adt.AsMap(s, st.WindowChecks, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to load window checkpoints: %w", err)
	}
	var out WindowCheckpoint
	found, err := windows.Get(abi.UIntKey(uint64(windowEpoch)), &out)
	if err != nil {
		return nil, xerrors.Errorf("failed to get window checkpoint: %w", err)
	}
	if !found {
		return NewWindowCheckpoint(st.NetworkName, windowEpoch), nil
	}
	return &out, nil
}

func (st *GatewayState) currWindowCheckpoint(rt runtime.Runtime) *WindowCheckpoint {
	w, err := st.GetWindowCheckpoint(adt.AsStore(rt), rt.CurrEpoch())
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load window checkpoint")
	return w
}

func (st *GatewayState) flushWindowCheckpoint(rt runtime.Runtime, w *WindowCheckpoint) {
	windows, err := adt.AsMap(adt.AsStore(rt), st.WindowChecks, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load window checkpoints")
	err = windows.Put(abi.UIntKey(uint64(w.Epoch)), w)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to put window checkpoint")
	st.WindowChecks, err = windows.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush window checkpoints")
}

// windowEpoch maps an epoch to the id of the window that will commit it,
// the first period boundary strictly after it.
func windowEpoch(epoch, period abi.ChainEpoch) abi.ChainEpoch {
	if period <= 0 {
		return epoch
	}
	return (epoch/period + 1) * period
}

// isSignable reports whether addr belongs to a caller type that can sign
// messages and so may originate value-moving cross-messages directly
// (Fund/Release), as opposed to an actor using SendCross.
func isSignable(rt runtime.Runtime, addr address.Address) bool {
	codeCID, ok := rt.GetActorCodeCID(addr)
	if !ok {
		return false
	}
	return builtin.IsPrincipal(codeCID)
}
