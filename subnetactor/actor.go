package subnetactor

//go:generate go run ./gen/gen.go

import (
	"bytes"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	cid "github.com/ipfs/go-cid"

	"github.com/consensus-shipyard/ipc-subnet-actors/gateway"
	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

var _ runtime.VMActor = Actor{}

// Methods enumerates the Subnet actor's exported method numbers. Reward's
// number must agree with gateway.RewardMethodNum, which the Gateway dials
// directly.
var Methods = struct {
	Constructor      abi.MethodNum
	Join             abi.MethodNum
	Leave            abi.MethodNum
	Kill             abi.MethodNum
	SubmitCheckpoint abi.MethodNum
	Reward           abi.MethodNum
}{builtin.MethodConstructor, 2, 3, 4, 5, gateway.RewardMethodNum}

// Actor implements a Subnet actor: the validator book and vote tally that
// drive the Gateway's per-child checkpoint and stake state.
type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.Join,
		3:                         a.Leave,
		4:                         a.Kill,
		5:                         a.SubmitCheckpoint,
		6:                         a.Reward,
	}
}

func (a Actor) Code() cid.Cid {
	return sdk.SubnetActorCodeID
}

func (a Actor) IsSingleton() bool {
	return false
}

func (a Actor) State() cbor.Er {
	return new(SubnetState)
}

// Constructor deploys a fresh Subnet actor. Subnet actors are created
// dynamically by the Init actor, unlike the singleton Gateway.
func (a Actor) Constructor(rt runtime.Runtime, params *ConstructParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.InitActorAddr)
	st, err := ConstructState(adt.AsStore(rt), params)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct subnet actor state")
	rt.StateCreate(st)
	return nil
}

// JoinParams carries the validator's libp2p-style network address.
type JoinParams struct {
	ValidatorNetAddr string
}

// Join credits caller's stake; below MinValidatorStake it accumulates
// locally with no Gateway call, at the crossing it registers the subnet,
// and every Join after that tops up the Gateway's stake record.
func (a Actor) Join(rt runtime.Runtime, params *JoinParams) *abi.EmptyValue {
	callerAddr := rt.Caller()
	rt.ValidateImmediateCallerAcceptAny()

	value := rt.ValueReceived()
	if value.LessThanEqual(big.Zero()) {
		rt.Abortf(exitcode.ErrIllegalArgument, "no funds included in Join call")
	}

	var st SubnetState
	var sendRegister, sendAddStake bool
	rt.StateTransaction(&st, func() {
		if st.Status == Terminating || st.Status == Killed {
			rt.Abortf(exitcode.ErrIllegalState, "subnet is no longer accepting validators")
		}
		wasInstantiated := st.Status == Instantiated

		stake, _, err := st.getStake(adt.AsStore(rt), callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load stake")
		st.setStake(rt, callerAddr, big.Add(stake, value))
		st.TotalStake = big.Add(st.TotalStake, value)
		st.addOrUpdateValidator(callerAddr, params.ValidatorNetAddr)
		st.recomputeStatus()

		switch {
		case wasInstantiated && st.Status != Instantiated:
			sendRegister = true
		case !wasInstantiated:
			sendAddStake = true
		}
	})

	var code exitcode.ExitCode
	switch {
	case sendRegister:
		code = rt.Send(st.IPCGatewayAddr, gateway.Methods.Register, nil, st.TotalStake, &builtin.Discard{})
	case sendAddStake:
		code = rt.Send(st.IPCGatewayAddr, gateway.Methods.AddStake, nil, value, &builtin.Discard{})
	default:
		return nil
	}
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "failed notifying gateway of stake change")
	}
	return nil
}

// Leave withdraws caller's stake, releasing it from the Gateway unless the
// subnet is already draining toward Kill.
func (a Actor) Leave(rt runtime.Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	callerAddr := rt.Caller()
	rt.ValidateImmediateCallerAcceptAny()

	var st SubnetState
	var doRelease bool
	var released abi.TokenAmount
	rt.StateTransaction(&st, func() {
		stake, has, err := st.getStake(adt.AsStore(rt), callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load stake")
		if !has || stake.LessThanEqual(big.Zero()) {
			rt.Abortf(exitcode.ErrIllegalState, "caller has no stake to leave with")
		}

		doRelease = st.Status != Terminating
		released = stake

		st.deleteStake(rt, callerAddr)
		st.TotalStake = big.Sub(st.TotalStake, stake)
		st.removeValidator(callerAddr)
		st.recomputeStatus()
	})

	if doRelease {
		code := rt.Send(st.IPCGatewayAddr, gateway.Methods.ReleaseStake, &gateway.FundParams{Value: released}, big.Zero(), &builtin.Discard{})
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed releasing stake from gateway")
		}
	}
	return nil
}

// Kill transitions a fully-drained subnet to Terminating and asks the
// Gateway to remove its registry entry.
func (a Actor) Kill(rt runtime.Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()

	var st SubnetState
	rt.StateTransaction(&st, func() {
		if st.Status == Terminating || st.Status == Killed {
			rt.Abortf(exitcode.ErrIllegalState, "subnet is already terminating")
		}
		if rt.CurrentBalance().GreaterThan(big.Zero()) {
			rt.Abortf(exitcode.ErrIllegalState, "subnet actor balance must be zero to kill")
		}
		if len(st.ValidatorSet) > 0 || st.TotalStake.GreaterThan(big.Zero()) {
			rt.Abortf(exitcode.ErrIllegalState, "subnet actor still has validators or stake")
		}
		st.Status = Terminating
	})

	code := rt.Send(st.IPCGatewayAddr, gateway.Methods.Kill, nil, big.Zero(), &builtin.Discard{})
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "failed killing subnet registration on gateway")
	}
	return nil
}

// SubmitCheckpointParams carries a Checkpoint's dagcbor encoding, the same
// marshalled-bytes convention as gateway.CheckpointParams.
type SubmitCheckpointParams struct {
	Checkpoint []byte
}

// SubmitCheckpoint records one validator's vote for a candidate checkpoint,
// flushing it to the Gateway once stake-weighted quorum is reached.
func (a Actor) SubmitCheckpoint(rt runtime.Runtime, params *SubmitCheckpointParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	callerAddr := rt.Caller()

	var ch gateway.Checkpoint
	err := ch.UnmarshalCBOR(bytes.NewReader(params.Checkpoint))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to unmarshal checkpoint")

	var st SubnetState
	var commit bool
	rt.StateTransaction(&st, func() {
		if !st.isValidator(callerAddr) {
			rt.Abortf(exitcode.ErrIllegalState, "caller is not a validator of this subnet")
		}

		id := st.ID(rt)
		if ch.Data.Source != id.String() {
			rt.Abortf(exitcode.ErrIllegalArgument, "checkpoint source does not match this subnet")
		}
		if abi.ChainEpoch(ch.Data.Epoch) != nextCheckpointEpoch(rt, &st) {
			rt.Abortf(exitcode.ErrIllegalArgument, "checkpoint is not for the next expected period")
		}
		if st.PrevCheckpoint != gateway.NoPreviousCheck && ch.Data.PrevCheck != st.PrevCheckpoint {
			rt.Abortf(exitcode.ErrIllegalArgument, "checkpoint does not chain from the previous checkpoint")
		}

		checkCid, err := ch.Cid()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute checkpoint cid")

		v, found, err := st.getVoteSet(adt.AsStore(rt), checkCid)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load vote set")
		if !found {
			v = &VoteSet{Checkpoint: ch, Weight: big.Zero()}
		}
		if v.hasVoted(callerAddr) {
			rt.Abortf(exitcode.ErrIllegalState, "validator has already voted for this checkpoint")
		}

		stake, _, err := st.getStake(adt.AsStore(rt), callerAddr)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load voter stake")
		v.Voters = append(v.Voters, callerAddr)
		v.Weight = big.Add(v.Weight, stake)

		if st.hasQuorum(v) {
			st.PrevCheckpoint = checkCid
			st.purgeVoteSet(rt, checkCid)
			commit = true
		} else {
			st.flushVoteSet(rt, checkCid, v)
		}
	})

	if commit {
		code := rt.Send(st.IPCGatewayAddr, gateway.Methods.CommitChildCheckpoint, &gateway.CheckpointParams{Checkpoint: params.Checkpoint}, big.Zero(), &builtin.Discard{})
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed committing checkpoint to gateway")
		}
	}
	return nil
}

// Reward distributes a Gateway-originated fee evenly across the validator
// set; the division remainder stays in the actor.
func (a Actor) Reward(rt runtime.Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	value := rt.ValueReceived()

	var st SubnetState
	var validators []address.Address
	rt.StateTransaction(&st, func() {
		rt.ValidateImmediateCallerIs(st.IPCGatewayAddr)
		if value.LessThanEqual(big.Zero()) {
			rt.Abortf(exitcode.ErrIllegalArgument, "Reward requires a positive value")
		}
		if len(st.ValidatorSet) == 0 {
			rt.Abortf(exitcode.ErrIllegalState, "Reward requires a non-empty validator set")
		}
		validators = make([]address.Address, len(st.ValidatorSet))
		for i, v := range st.ValidatorSet {
			validators[i] = v.Addr
		}
	})

	share := big.Div(value, big.NewInt(int64(len(validators))))
	if share.GreaterThan(big.Zero()) {
		for _, v := range validators {
			code := rt.Send(v, builtin.MethodSend, nil, share, &builtin.Discard{})
			if !code.IsSuccess() {
				rt.Abortf(exitcode.ErrIllegalState, "failed distributing reward share to validator %s", v)
			}
		}
	}
	return nil
}

// nextCheckpointEpoch is the window epoch a freshly submitted checkpoint
// must carry, the same rounding as gateway's windowEpoch.
func nextCheckpointEpoch(rt runtime.Runtime, st *SubnetState) abi.ChainEpoch {
	period := st.CheckPeriod
	if period <= 0 {
		return rt.CurrEpoch()
	}
	epoch := rt.CurrEpoch()
	return (epoch/period + 1) * period
}
