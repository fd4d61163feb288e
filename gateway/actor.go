package gateway

//go:generate go run ./gen/gen.go

import (
	"bytes"
	"io"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	cid "github.com/ipfs/go-cid"

	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

var _ runtime.VMActor = Actor{}

// Methods enumerates the Gateway's exported method numbers.
var Methods = struct {
	Constructor           abi.MethodNum
	Register              abi.MethodNum
	AddStake              abi.MethodNum
	ReleaseStake          abi.MethodNum
	Kill                  abi.MethodNum
	CommitChildCheckpoint abi.MethodNum
	Fund                  abi.MethodNum
	Release               abi.MethodNum
	SendCross             abi.MethodNum
	ApplyMessage          abi.MethodNum
	Propagate             abi.MethodNum
	WhitelistPropagator   abi.MethodNum
	SealCheckpoint        abi.MethodNum
}{builtin.MethodConstructor, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

// Actor implements the Gateway: subnet registry, checkpoint ledger, and
// cross-message engine.
type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.Register,
		3:                         a.AddStake,
		4:                         a.ReleaseStake,
		5:                         a.Kill,
		6:                         a.CommitChildCheckpoint,
		7:                         a.Fund,
		8:                         a.Release,
		9:                         a.SendCross,
		10:                        a.ApplyMessage,
		11:                        a.Propagate,
		12:                        a.WhitelistPropagator,
		13:                        a.SealCheckpoint,
	}
}

func (a Actor) Code() cid.Cid {
	return sdk.GatewayActorCodeID
}

func (a Actor) IsSingleton() bool {
	return true
}

func (a Actor) State() cbor.Er {
	return new(GatewayState)
}

// Constructor deploys a fresh Gateway for NetworkName.
func (a Actor) Constructor(rt runtime.Runtime, params *ConstructorParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.SystemActorAddr)
	st, err := ConstructState(adt.AsStore(rt), params)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct gateway state")
	rt.StateCreate(st)
	return nil
}

// SubnetIDParam wraps a SubnetID in a serializable envelope, doubling as
// Register's result so a registering subnet actor learns its canonical
// path.
type SubnetIDParam struct {
	ID string
}

// Register admits caller (a subnet actor) as an immediate child of this
// network.
func (a Actor) Register(rt runtime.Runtime, _ *abi.EmptyValue) *SubnetIDParam {
	rt.ValidateImmediateCallerType(sdk.SubnetActorCodeID)
	subnetActorAddr := rt.Caller()

	var st GatewayState
	var shid sdk.SubnetID
	rt.StateTransaction(&st, func() {
		shid = sdk.NewSubnetID(st.NetworkName, subnetActorAddr)
		if _, has, _ := st.GetSubnet(adt.AsStore(rt), shid); has {
			rt.Abortf(exitcode.ErrIllegalArgument, "subnet %s is already registered", shid)
		}
		st.registerSubnet(rt, shid, rt.ValueReceived())
	})

	return &SubnetIDParam{ID: shid.String()}
}

// AddStake tops up an already-registered child subnet's stake.
func (a Actor) AddStake(rt runtime.Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(sdk.SubnetActorCodeID)
	subnetActorAddr := rt.Caller()

	value := rt.ValueReceived()
	if value.LessThanEqual(big.Zero()) {
		rt.Abortf(exitcode.ErrIllegalArgument, "no funds included in AddStake call")
	}

	var st GatewayState
	rt.StateTransaction(&st, func() {
		shid := sdk.NewSubnetID(st.NetworkName, subnetActorAddr)
		sh, has, err := st.GetSubnet(adt.AsStore(rt), shid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to fetch subnet state")
		if !has {
			rt.Abortf(exitcode.ErrIllegalArgument, "subnet %s hasn't been registered yet", shid)
		}
		sh.addStake(rt, &st, value)
	})
	return nil
}

// FundParams carries the amount a subnet actor asks the Gateway to release
// back to it.
type FundParams struct {
	Value abi.TokenAmount
}

// ReleaseStake returns part of a child subnet's locked collateral. The
// state change and the outbound transfer stand or fall together: the send
// failing aborts the whole call.
func (a Actor) ReleaseStake(rt runtime.Runtime, params *FundParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(sdk.SubnetActorCodeID)
	subnetActorAddr := rt.Caller()

	if params.Value.LessThanEqual(big.Zero()) {
		rt.Abortf(exitcode.ErrIllegalArgument, "no funds requested in ReleaseStake call")
	}

	var st GatewayState
	rt.StateTransaction(&st, func() {
		shid := sdk.NewSubnetID(st.NetworkName, subnetActorAddr)
		sh, has, err := st.GetSubnet(adt.AsStore(rt), shid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to fetch subnet state")
		if !has {
			rt.Abortf(exitcode.ErrIllegalArgument, "subnet %s hasn't been registered yet", shid)
		}
		if sh.Stake.LessThan(params.Value) {
			rt.Abortf(exitcode.ErrIllegalState, "subnet %s is not allowed to release that much stake", shid)
		}
		if rt.CurrentBalance().LessThan(params.Value) {
			rt.Abortf(exitcode.ErrIllegalState, "gateway balance can't cover the requested release")
		}
		sh.addStake(rt, &st, params.Value.Neg())
	})

	code := rt.Send(subnetActorAddr, builtin.MethodSend, nil, params.Value, &builtin.Discard{})
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "failed sending released stake to subnet actor")
	}
	return nil
}

// Kill deregisters a drained child subnet and returns its remaining stake.
func (a Actor) Kill(rt runtime.Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(sdk.SubnetActorCodeID)
	subnetActorAddr := rt.Caller()

	var st GatewayState
	var sh *Subnet
	rt.StateTransaction(&st, func() {
		shid := sdk.NewSubnetID(st.NetworkName, subnetActorAddr)
		var has bool
		var err error
		sh, has, err = st.GetSubnet(adt.AsStore(rt), shid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to fetch subnet state")
		if !has {
			rt.Abortf(exitcode.ErrIllegalArgument, "subnet %s hasn't been registered yet", shid)
		}
		if sh.CircSupply.GreaterThan(big.Zero()) {
			rt.Abortf(exitcode.ErrIllegalState, "can't kill subnet %s with non-zero circulating supply", shid)
		}
		if rt.CurrentBalance().LessThan(sh.Stake) {
			rt.Abortf(exitcode.ErrIllegalState, "gateway balance can't cover the returned stake")
		}
		st.deleteSubnet(rt, shid)
	})

	code := rt.Send(subnetActorAddr, builtin.MethodSend, nil, sh.Stake, &builtin.Discard{})
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "failed returning stake to killed subnet actor")
	}
	return nil
}

// CheckpointParams carries a Checkpoint's dagcbor encoding. The envelope
// travels as marshalled bytes so its content hash is computed over the
// exact encoding the submitter signed.
type CheckpointParams struct {
	Checkpoint []byte
}

// CommitChildCheckpoint admits a checkpoint from a child subnet actor,
// folding its cross-message bundle into this network's ledger.
func (a Actor) CommitChildCheckpoint(rt runtime.Runtime, params *CheckpointParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(sdk.SubnetActorCodeID)
	subnetActorAddr := rt.Caller()

	var ch Checkpoint
	err := ch.UnmarshalCBOR(bytes.NewReader(params.Checkpoint))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to unmarshal checkpoint")

	source, err := sdk.SubnetID(ch.Data.Source).Actor()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to derive checkpoint source actor")
	if source != subnetActorAddr {
		rt.Abortf(exitcode.ErrIllegalArgument, "checkpoint does not belong to calling subnet")
	}

	var st GatewayState
	var fee abi.TokenAmount
	rt.StateTransaction(&st, func() {
		shid := sdk.NewSubnetID(st.NetworkName, subnetActorAddr)
		sh, has, err := st.GetSubnet(adt.AsStore(rt), shid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to fetch subnet state")
		if !has {
			rt.Abortf(exitcode.ErrIllegalArgument, "subnet %s hasn't been registered yet", shid)
		}
		if sh.Status != Active {
			rt.Abortf(exitcode.ErrIllegalState, "can't commit a checkpoint for a non-active subnet")
		}

		if sh.PrevCheckpoint.Defined() && sh.PrevCheckpoint != NoPreviousCheck {
			prev, found, err := st.GetCommittedCheckpoint(adt.AsStore(rt), sh.PrevCheckpoint)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load previous checkpoint")
			if found {
				if ch.Data.Epoch <= prev.Data.Epoch {
					rt.Abortf(exitcode.ErrIllegalArgument, "checkpoint epoch is not newer than previous checkpoint")
				}
				if ch.Data.PrevCheck != sh.PrevCheckpoint {
					rt.Abortf(exitcode.ErrIllegalArgument, "checkpoint is not consistent with previous checkpoint")
				}
			}
		}

		window := st.currWindowCheckpoint(rt)

		var bundle *CrossMsgsBundle
		if ch.Data.CrossMsgsCid.Defined() && ch.Data.CrossMsgsCid != NoPreviousCheck {
			b, found, err := st.getCrossMsgsBundle(adt.AsStore(rt), ch.Data.CrossMsgsCid)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load committed cross-msgs bundle")
			if !found {
				rt.Abortf(exitcode.ErrIllegalArgument, "checkpoint references an unknown cross-msgs bundle")
			}
			bundle = b
			newCirc := big.Sub(sh.CircSupply, bundle.Value)
			if newCirc.LessThan(big.Zero()) {
				rt.Abortf(exitcode.ErrIllegalState, "checkpoint would drive circulating supply negative")
			}
			sh.CircSupply = newCirc
			fee = bundle.Fee
		} else {
			fee = big.Zero()
		}

		checkCid, err := ch.Cid()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute checkpoint cid")
		err = window.AddChild(ch.Data.Source, checkCid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "duplicate checkpoint source in window")
		st.flushWindowCheckpoint(rt, window)

		st.storeCommittedCheckpoint(rt, checkCid, &ch)
		sh.PrevCheckpoint = checkCid
		st.flushSubnet(rt, sh)

		st.applyChildCrossMsgs(rt, bundle)
	})

	if fee.GreaterThan(big.Zero()) {
		code := rt.Send(subnetActorAddr, RewardMethodNum, nil, fee, &builtin.Discard{})
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed distributing checkpoint fee reward")
		}
	}
	return nil
}

// SealCheckpointResult carries the unsigned CheckData a caller folds into a
// signed Checkpoint for the Subnet actor's SubmitCheckpoint.
type SealCheckpointResult struct {
	Data CheckData
}

// MarshalCBOR encodes the result as an unsigned Checkpoint carrying Data.
func (r *SealCheckpointResult) MarshalCBOR(w io.Writer) error {
	return (&Checkpoint{Data: r.Data}).MarshalCBOR(w)
}

// SealCheckpoint seals this network's current checkpoint window into a
// committable CheckData: it persists the window's accumulated bottom-up
// cross-messages under their content hash and attaches that hash as
// CrossMsgsCid. Without this call nothing ever populates CrossMsgsRegistry,
// so no checkpoint referencing a real cross-msgs bundle could ever pass
// CommitChildCheckpoint's lookup. The caller still owes PrevCheck and a
// Signature before submitting the result.
func (a Actor) SealCheckpoint(rt runtime.Runtime, _ *abi.EmptyValue) *SealCheckpointResult {
	rt.ValidateImmediateCallerAcceptAny()

	var st GatewayState
	var data CheckData
	rt.StateTransaction(&st, func() {
		window := st.currWindowCheckpoint(rt)
		data = CheckData{
			Source:       st.NetworkName.String(),
			Epoch:        int64(window.Epoch),
			PrevCheck:    NoPreviousCheck,
			Childs:       window.Childs,
			CrossMsgsCid: NoPreviousCheck,
		}
		if len(window.CrossMsg.Msgs) > 0 {
			data.CrossMsgsCid = st.storeCrossMsgsBundle(rt, &window.CrossMsg)
		}
	})

	return &SealCheckpointResult{Data: data}
}

// RewardMethodNum is the Subnet actor's Reward method number, used by the
// Gateway to distribute checkpoint fees to a child's validator pool after
// the commit transaction lands.
const RewardMethodNum = abi.MethodNum(6)

// Fund originates a top-down message crediting destination's circulating
// supply with the attached value minus CrossMsgFee.
func (a Actor) Fund(rt runtime.Runtime, params *SubnetIDParam) *abi.EmptyValue {
	callerAddr := rt.Caller()
	rt.ValidateImmediateCallerAcceptAny()
	if !isSignable(rt, callerAddr) {
		rt.Abortf(exitcode.ErrIllegalArgument, "Fund must be called by a signable address")
	}

	value := rt.ValueReceived()
	if value.LessThanEqual(big.Zero()) {
		rt.Abortf(exitcode.ErrIllegalArgument, "no funds included in Fund call")
	}
	if value.LessThanEqual(CrossMsgFee) {
		rt.Abortf(exitcode.ErrInsufficientFunds, "funded value does not cover the cross-message fee")
	}

	dst, err := sdk.NewSubnetIDFromString(params.ID)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid destination subnet id")

	var st GatewayState
	var feeSubnet sdk.SubnetID
	var fee abi.TokenAmount
	rt.StateTransaction(&st, func() {
		from, err := sdk.NewIPCAddress(st.NetworkName, callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid caller address")
		to, err := sdk.NewIPCAddress(dst, callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid destination address")

		msg := &StorableMsg{
			From:   from,
			To:     to,
			Value:  big.Sub(value, CrossMsgFee),
			Method: builtin.MethodSend,
		}
		feeSubnet, fee = st.enqueueTopDown(rt, msg, CrossMsgFee)
	})

	if fee.GreaterThan(big.Zero()) {
		distributeValidatorFee(rt, feeSubnet, fee)
	}
	return nil
}

// Release originates a bottom-up message releasing value to the parent
// network, burning it locally; on apply the parent pays it out of the
// balance it already holds, without minting.
func (a Actor) Release(rt runtime.Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	callerAddr := rt.Caller()
	rt.ValidateImmediateCallerAcceptAny()
	if !isSignable(rt, callerAddr) {
		rt.Abortf(exitcode.ErrIllegalArgument, "Release must be called by a signable address")
	}

	value := rt.ValueReceived()
	if value.LessThanEqual(big.Zero()) {
		rt.Abortf(exitcode.ErrIllegalArgument, "no funds included in Release call")
	}
	if value.LessThanEqual(CrossMsgFee) {
		rt.Abortf(exitcode.ErrInsufficientFunds, "released value does not cover the cross-message fee")
	}

	var st GatewayState
	var doBurn bool
	var feeSubnet sdk.SubnetID
	var topDownFee abi.TokenAmount
	rt.StateTransaction(&st, func() {
		parent, err := st.NetworkName.Parent()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "the root network cannot Release")
		from, err := sdk.NewIPCAddress(st.NetworkName, callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid caller address")
		to, err := sdk.NewIPCAddress(parent, callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid parent address")

		msg := &StorableMsg{
			From:   from,
			To:     to,
			Value:  big.Sub(value, CrossMsgFee),
			Method: builtin.MethodSend,
		}
		doBurn, feeSubnet, topDownFee = st.commitCrossMessage(rt, msg, CrossMsgFee)
	})

	if doBurn {
		code := rt.Send(builtin.BurntFundsActorAddr, builtin.MethodSend, nil, big.Sub(value, CrossMsgFee), &builtin.Discard{})
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed burning released value")
		}
	}
	if topDownFee.GreaterThan(big.Zero()) {
		distributeValidatorFee(rt, feeSubnet, topDownFee)
	}
	return nil
}

// CrossMsgParams wraps a caller-originated cross-message and its intended
// destination.
type CrossMsgParams struct {
	Msg         CrossMsg
	Destination string
}

// SendCross lets a non-signable (actor) caller originate an arbitrary
// cross-message.
func (a Actor) SendCross(rt runtime.Runtime, params *CrossMsgParams) *abi.EmptyValue {
	callerAddr := rt.Caller()
	rt.ValidateImmediateCallerAcceptAny()
	if isSignable(rt, callerAddr) {
		rt.Abortf(exitcode.ErrIllegalArgument, "SendCross must be called by a non-signable actor")
	}

	dst, err := sdk.NewSubnetIDFromString(params.Destination)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid destination subnet id")

	var st GatewayState
	var doBurn bool
	var feeSubnet sdk.SubnetID
	var topDownFee abi.TokenAmount
	var burnValue abi.TokenAmount
	rt.StateTransaction(&st, func() {
		if dst == st.NetworkName {
			rt.Abortf(exitcode.ErrIllegalArgument, "SendCross destination equals current network")
		}

		msg := params.Msg.Msg
		if !rt.ValueReceived().Equals(msg.Value) {
			rt.Abortf(exitcode.ErrIllegalArgument, "attached value does not match message value")
		}
		if msg.Value.LessThanEqual(CrossMsgFee) {
			rt.Abortf(exitcode.ErrInsufficientFunds, "message value does not cover the cross-message fee")
		}

		to, err := sdk.NewIPCAddress(dst, msg.To.Raw)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid destination address")
		from, err := sdk.NewIPCAddress(st.NetworkName, callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "invalid caller address")
		msg.To = to
		msg.From = from
		msg.Value = big.Sub(msg.Value, CrossMsgFee)
		burnValue = msg.Value

		doBurn, feeSubnet, topDownFee = st.commitCrossMessage(rt, &msg, CrossMsgFee)
	})

	if doBurn {
		code := rt.Send(builtin.BurntFundsActorAddr, builtin.MethodSend, nil, burnValue, &builtin.Discard{})
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed burning SendCross value")
		}
	}
	if topDownFee.GreaterThan(big.Zero()) {
		distributeValidatorFee(rt, feeSubnet, topDownFee)
	}
	return nil
}

// ApplyMsgParams wraps the single cross-message the system actor is
// delivering this call.
type ApplyMsgParams struct {
	CrossMsg CrossMsg
}

// ApplyMessage delivers one previously-routed cross-message in order.
func (a Actor) ApplyMessage(rt runtime.Runtime, params *ApplyMsgParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.SystemActorAddr)
	msg := params.CrossMsg.Msg

	var st GatewayState
	var toSend *address.Address
	var parked bool
	var mint bool
	rt.StateTransaction(&st, func() {
		local := msg.To.Subnet == st.NetworkName
		switch msg.ApplyType(st.NetworkName) {
		case TopDown:
			mint = true
			if local {
				if msg.Nonce != st.AppliedTopDownNonce {
					rt.Abortf(exitcode.ErrIllegalState, "unexpected top-down nonce: got %d want %d", msg.Nonce, st.AppliedTopDownNonce)
				}
				st.AppliedTopDownNonce++
				raw := msg.To.Raw
				toSend = &raw
			} else {
				st.parkInPostbox(rt, &msg, []address.Address{msg.From.Raw})
				parked = true
			}
		case BottomUp:
			if local {
				st.bottomupStateTransition(rt, &msg)
				raw := msg.To.Raw
				toSend = &raw
			} else {
				mint = true
				st.parkInPostbox(rt, &msg, []address.Address{msg.From.Raw})
				parked = true
			}
		default:
			rt.Abortf(exitcode.ErrIllegalArgument, "unknown cross-message classification")
		}
	})

	// A top-down message carrying tokens across this subnet provides the
	// gateway with additional balance; a locally-delivered bottom-up
	// message instead pays out of the balance the gateway already holds
	// for its children, so it never mints.
	if mint && msg.Value.GreaterThan(big.Zero()) {
		Minter.Mint(rt, msg.Value)
	}
	if parked {
		return nil
	}

	code := rt.Send(*toSend, msg.Method, rawParams(msg.Params), msg.Value, &builtin.Discard{})
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "ApplyMessage sub-call failed with exit code %v", code)
	}
	return nil
}

// PropagateParams identifies the postbox entry to propagate further.
type PropagateParams struct {
	PostboxCid cid.Cid
}

// Propagate re-routes a parked message, collecting the fee from the
// caller-attached value and refunding the rest.
func (a Actor) Propagate(rt runtime.Runtime, params *PropagateParams) *abi.EmptyValue {
	callerAddr := rt.Caller()
	rt.ValidateImmediateCallerAcceptAny()

	value := rt.ValueReceived()
	if value.LessThanEqual(CrossMsgFee) {
		rt.Abortf(exitcode.ErrInsufficientFunds, "attached value does not cover the cross-message fee")
	}

	var st GatewayState
	var doBurn bool
	var feeSubnet sdk.SubnetID
	var topDownFee abi.TokenAmount
	var refund abi.TokenAmount
	var burnValue abi.TokenAmount
	rt.StateTransaction(&st, func() {
		item, found, err := st.getPostboxItem(adt.AsStore(rt), params.PostboxCid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load postbox item")
		if !found {
			rt.Abortf(exitcode.ErrIllegalState, "no postbox entry for given cid")
		}
		if len(item.Owners) > 0 && !item.hasOwner(callerAddr) {
			rt.Abortf(exitcode.ErrIllegalState, "caller is not an authorized propagator")
		}

		msg := item.Msg
		doBurn, feeSubnet, topDownFee = st.commitCrossMessage(rt, &msg, CrossMsgFee)
		burnValue = msg.Value
		st.removePostboxItem(rt, params.PostboxCid)
		refund = big.Sub(value, CrossMsgFee)
	})

	if refund.GreaterThan(big.Zero()) {
		code := rt.Send(callerAddr, builtin.MethodSend, nil, refund, &builtin.Discard{})
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed refunding unused propagation value")
		}
	}
	if doBurn {
		code := rt.Send(builtin.BurntFundsActorAddr, builtin.MethodSend, nil, burnValue, &builtin.Discard{})
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed burning propagated value")
		}
	}
	if topDownFee.GreaterThan(big.Zero()) {
		distributeValidatorFee(rt, feeSubnet, topDownFee)
	}
	return nil
}

// WhitelistPropagatorParams authorizes additional raw addresses to call
// Propagate on a parked postbox entry.
type WhitelistPropagatorParams struct {
	PostboxCid cid.Cid
	ToAdd      []address.Address
}

// WhitelistPropagator lets an existing owner of a postbox entry add more
// authorized propagators.
func (a Actor) WhitelistPropagator(rt runtime.Runtime, params *WhitelistPropagatorParams) *abi.EmptyValue {
	callerAddr := rt.Caller()
	rt.ValidateImmediateCallerAcceptAny()

	var st GatewayState
	rt.StateTransaction(&st, func() {
		item, found, err := st.getPostboxItem(adt.AsStore(rt), params.PostboxCid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load postbox item")
		if !found {
			rt.Abortf(exitcode.ErrIllegalState, "no postbox entry for given cid")
		}
		if len(item.Owners) == 0 || !item.hasOwner(callerAddr) {
			rt.Abortf(exitcode.ErrIllegalState, "caller is not an owner of this postbox entry")
		}
		for _, add := range params.ToAdd {
			if !item.hasOwner(add) {
				item.Owners = append(item.Owners, add)
			}
		}
		st.flushPostboxItem(rt, params.PostboxCid, item)
	})
	return nil
}

// distributeValidatorFee routes a propagation fee to the subnet's
// validator pool via the Reward method, after the routing transaction has
// committed.
func distributeValidatorFee(rt runtime.Runtime, dst sdk.SubnetID, fee abi.TokenAmount) {
	actorAddr, err := dst.Actor()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to derive subnet actor for fee distribution")
	code := rt.Send(actorAddr, RewardMethodNum, nil, fee, &builtin.Discard{})
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "failed distributing cross-message fee reward")
	}
}
