package gateway

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"

	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

var log = logging.Logger("gateway")

// CrossMsgType classifies a cross-message relative to the network applying
// or routing it.
type CrossMsgType int

const (
	TopDown CrossMsgType = iota
	BottomUp
)

// StorableMsg is the wire representation of one cross-message.
type StorableMsg struct {
	From   sdk.IPCAddress
	To     sdk.IPCAddress
	Value  abi.TokenAmount
	Nonce  uint64
	Method abi.MethodNum
	Params []byte
}

// CrossMsg pairs a StorableMsg with the `wrapped` flag, carried through
// encodings but not behaviorally distinguished yet.
type CrossMsg struct {
	Msg     StorableMsg
	Wrapped bool
}

// CrossMsgsBundle is the aggregate of cross-messages attached to a
// checkpoint.
type CrossMsgsBundle struct {
	Msgs  []CrossMsg
	Value abi.TokenAmount
	Fee   abi.TokenAmount
}

func emptyCrossMsgsBundle() CrossMsgsBundle {
	return CrossMsgsBundle{Value: big.Zero(), Fee: big.Zero()}
}

// ApplyType derives the routing classification of msg relative to current.
// A message still in transit is TopDown iff its destination is a strict
// descendant of current, BottomUp otherwise. A message being delivered at
// its destination (to == current) is TopDown when it descended from a
// strict ancestor of current, and BottomUp otherwise: it arrived via the
// bottom-up path, possibly after a turning point. The destination-only
// check alone can't express that, since current is never its own strict
// descendant.
func (m *StorableMsg) ApplyType(current sdk.SubnetID) CrossMsgType {
	if m.To.Subnet == current {
		if current.IsDescendantOf(m.From.Subnet) {
			return TopDown
		}
		return BottomUp
	}
	if m.To.Subnet.IsDescendantOf(current) {
		return TopDown
	}
	return BottomUp
}

// enqueueTopDown assigns the next top-down nonce for dst's immediate child
// on the path from current toward msg.To, and appends msg to that child's
// queue. Returns the assigned fee recipient subnet and the fee itself.
func (st *GatewayState) enqueueTopDown(rt runtime.Runtime, msg *StorableMsg, fee abi.TokenAmount) (sdk.SubnetID, abi.TokenAmount) {
	child, err := st.NetworkName.Down(msg.To.Subnet)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "destination is not a descendant of this network")

	sh, has, err := st.GetSubnet(adt.AsStore(rt), child)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load child subnet")
	if !has {
		rt.Abortf(exitcode.ErrIllegalArgument, "unknown child subnet %s on path to %s", child, msg.To.Subnet)
	}

	msg.Nonce = sh.TopDownNonce
	sh.TopDownNonce++

	// The value now circulates inside the child's subtree; the matching
	// decrement happens when a checkpoint carrying it back commits.
	sh.CircSupply = big.Add(sh.CircSupply, msg.Value)

	queue, err := adt.AsArray(adt.AsStore(rt), sh.TopDownMsgs, CrossMsgsAMTBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load top-down queue")
	err = queue.Set(msg.Nonce, msg)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to enqueue top-down message")
	sh.TopDownMsgs, err = queue.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush top-down queue")

	st.flushSubnet(rt, sh)
	log.Debugw("enqueued top-down message", "subnet", child, "nonce", msg.Nonce)
	return child, fee
}

// commitCrossMessage is the shared internal routing primitive: given a
// message not yet at its destination, either enqueue it
// top-down toward the next hop, or fold it into the current window's
// bottom-up bundle, flipping to top-down once the turning point
// (common_parent == current network) is reached.
//
// Returns doBurn (the caller must burn msg.Value locally) and, when a
// top-down fee was produced, the subnet it is owed to.
func (st *GatewayState) commitCrossMessage(rt runtime.Runtime, msg *StorableMsg, fee abi.TokenAmount) (doBurn bool, topDownFeeSubnet sdk.SubnetID, topDownFee abi.TokenAmount) {
	if msg.To.Subnet == st.NetworkName {
		rt.Abortf(exitcode.ErrIllegalState, "already at destination %s", msg.To.Subnet)
	}

	switch msg.ApplyType(st.NetworkName) {
	case TopDown:
		dst, f := st.enqueueTopDown(rt, msg, fee)
		return false, dst, f
	case BottomUp:
		common := sdk.CommonParent(msg.From.Subnet, msg.To.Subnet)
		if common == st.NetworkName {
			dst, f := st.enqueueTopDown(rt, msg, fee)
			return false, dst, f
		}
		window := st.currWindowCheckpoint(rt)
		window.CrossMsg.Msgs = append(window.CrossMsg.Msgs, CrossMsg{Msg: *msg})
		window.CrossMsg.Fee = big.Add(window.CrossMsg.Fee, fee)
		if msg.Value.GreaterThan(big.Zero()) {
			window.CrossMsg.Value = big.Add(window.CrossMsg.Value, msg.Value)
			doBurn = true
		}
		st.flushWindowCheckpoint(rt, window)
		log.Debugw("scheduled bottom-up message", "window", window.Epoch, "burn", doBurn)
		return doBurn, "", big.Zero()
	default:
		rt.Abortf(exitcode.ErrIllegalArgument, "unknown cross-message classification")
		return false, "", big.Zero()
	}
}

// applyChildCrossMsgs processes the cross-message bundle attached to a
// freshly committed child checkpoint: messages
// addressed exactly to this network are pulled out as applyable bottom-up
// messages; everything else is routed via commitCrossMessage exactly as if
// this Gateway had originated it, so multi-hop bottom-up traffic keeps
// moving without a bespoke code path.
func (st *GatewayState) applyChildCrossMsgs(rt runtime.Runtime, bundle *CrossMsgsBundle) {
	if bundle == nil {
		return
	}
	for i := range bundle.Msgs {
		m := bundle.Msgs[i].Msg
		if m.To.Subnet == st.NetworkName {
			st.enqueueBottomUp(rt, &m)
			continue
		}
		st.commitCrossMessage(rt, &m, big.Zero())
	}
}

// bottomupStateTransition verifies a locally-delivered bottom-up message
// carries the next applied nonce and advances it. The per-child circulating
// supply was already settled when the checkpoint carrying the message
// committed; the dispatched value comes out of the balance the gateway
// holds.
func (st *GatewayState) bottomupStateTransition(rt runtime.Runtime, msg *StorableMsg) {
	if msg.Nonce != st.AppliedBottomUpNonce+1 {
		rt.Abortf(exitcode.ErrIllegalState, "unexpected bottom-up nonce: got %d want %d", msg.Nonce, st.AppliedBottomUpNonce+1)
	}
	st.AppliedBottomUpNonce++
}

// enqueueBottomUp assigns the next applied-bottom-up nonce to a message
// that has reached its destination at this network, and parks it for
// ApplyMessage to deliver in order.
func (st *GatewayState) enqueueBottomUp(rt runtime.Runtime, msg *StorableMsg) {
	msg.Nonce = st.BottomUpNonce
	st.BottomUpNonce++

	queue, err := adt.AsArray(adt.AsStore(rt), st.BottomUpMsgs, CrossMsgsAMTBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load bottom-up queue")
	err = queue.Set(msg.Nonce, msg)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to enqueue bottom-up message")
	st.BottomUpMsgs, err = queue.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush bottom-up queue")
}

// storeCrossMsgsBundle persists bundle in the content-addressed registry
// and returns its cid.
func (st *GatewayState) storeCrossMsgsBundle(rt runtime.Runtime, bundle *CrossMsgsBundle) cid.Cid {
	registry, err := adt.AsMap(adt.AsStore(rt), st.CrossMsgsRegistry, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load cross-msgs registry")

	c, err := bundleCid(bundle)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute cross-msgs bundle cid")

	err = registry.Put(abi.CidKey(c), bundle)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to store cross-msgs bundle")
	st.CrossMsgsRegistry, err = registry.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush cross-msgs registry")
	return c
}

func (st *GatewayState) getCrossMsgsBundle(s adt.Store, c cid.Cid) (*CrossMsgsBundle, bool, error) {
	if !c.Defined() {
		return nil, false, nil
	}
	registry, err := adt.AsMap(s, st.CrossMsgsRegistry, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, false, err
	}
	var out CrossMsgsBundle
	found, err := registry.Get(abi.CidKey(c), &out)
	if err != nil {
		return nil, false, err
	}
	return &out, found, nil
}
