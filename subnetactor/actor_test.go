package subnetactor

import (
	"bytes"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	"github.com/filecoin-project/specs-actors/v7/support/mock"
	tutil "github.com/filecoin-project/specs-actors/v7/support/testing"
	"github.com/stretchr/testify/require"

	"github.com/consensus-shipyard/ipc-subnet-actors/gateway"
)

var (
	subnetActorAddr = tutil.NewIDAddr(nil, 300)
	gatewayAddr     = tutil.NewIDAddr(nil, 301)
	validator1      = tutil.NewIDAddr(nil, 400)
	validator2      = tutil.NewIDAddr(nil, 401)
	validator3      = tutil.NewIDAddr(nil, 402)
)

func getRuntime(t testing.TB) *mock.Runtime {
	return mock.NewBuilder(subnetActorAddr).WithBalance(big.Zero(), big.Zero()).Build(t)
}

func construct(t testing.TB, rt *mock.Runtime, minStake abi.TokenAmount) {
	rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
	rt.SetCaller(builtin.InitActorAddr, builtin.InitActorCodeID)
	params := &ConstructParams{
		Parent:            "/root",
		Name:              "testsubnet",
		Consensus:         Delegated,
		MinValidatorStake: minStake,
		CheckPeriod:       10,
		IPCGatewayAddr:    gatewayAddr,
	}
	rt.Call(Actor{}.Constructor, params)
	rt.Verify()
}

// TestJoinRegistersOnlyOnThresholdCrossing: a subnet accumulates stake
// silently below the minimum validator stake, and registers with the
// Gateway exactly once, on the Join that crosses the threshold.
func TestJoinRegistersOnlyOnThresholdCrossing(t *testing.T) {
	rt := getRuntime(t)
	construct(t, rt, abi.NewTokenAmount(80))

	rt.SetCaller(validator1, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(40))
	rt.SetBalance(abi.NewTokenAmount(40))
	rt.ExpectValidateCallerAny()
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/1.2.3.4/tcp/1"})
	rt.Verify()

	var st SubnetState
	rt.GetState(&st)
	require.Equal(t, Instantiated, st.Status)
	require.True(t, st.TotalStake.Equals(abi.NewTokenAmount(40)))

	rt.SetCaller(validator2, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(40))
	rt.SetBalance(abi.NewTokenAmount(80))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.Register, nil, abi.NewTokenAmount(80), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/5.6.7.8/tcp/1"})
	rt.Verify()

	rt.GetState(&st)
	require.Equal(t, Active, st.Status)
	require.True(t, st.TotalStake.Equals(abi.NewTokenAmount(80)))
	require.Len(t, st.ValidatorSet, 2)
}

func mkCheckpoint(t testing.TB, epoch int64) *gateway.Checkpoint {
	ch := &gateway.Checkpoint{Data: gateway.CheckData{
		Source:       "/root/" + subnetActorAddr.String(),
		Epoch:        epoch,
		PrevCheck:    gateway.NoPreviousCheck,
		CrossMsgsCid: gateway.NoPreviousCheck,
	}}
	return ch
}

func checkpointBytes(t testing.TB, ch *gateway.Checkpoint) []byte {
	var buf bytes.Buffer
	require.NoError(t, ch.MarshalCBOR(&buf))
	return buf.Bytes()
}

// TestSubmitCheckpointQuorum: with validators holding 40/40/20 stake,
// votes summing to 60 (<2/3 of 100) only record, and the vote that pushes
// weight to 100 (>=2/3) commits the checkpoint to the Gateway and purges
// the vote set.
func TestSubmitCheckpointQuorum(t *testing.T) {
	rt := getRuntime(t)
	construct(t, rt, abi.NewTokenAmount(1))

	rt.SetCaller(validator1, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(40))
	rt.SetBalance(abi.NewTokenAmount(40))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.Register, nil, abi.NewTokenAmount(40), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/1/tcp/1"})
	rt.Verify()

	rt.SetCaller(validator2, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(40))
	rt.SetBalance(abi.NewTokenAmount(80))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.AddStake, nil, abi.NewTokenAmount(40), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/2/tcp/1"})
	rt.Verify()

	rt.SetCaller(validator3, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(20))
	rt.SetBalance(abi.NewTokenAmount(100))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.AddStake, nil, abi.NewTokenAmount(20), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/3/tcp/1"})
	rt.Verify()

	ch := mkCheckpoint(t, 10)
	chBytes := checkpointBytes(t, ch)
	checkCid, err := ch.Cid()
	require.NoError(t, err)

	// CheckPeriod is 10, so at epoch 5 the next expected window is epoch 10.
	rt.SetCaller(validator1, builtin.AccountActorCodeID)
	rt.SetEpoch(5)
	rt.ExpectValidateCallerAny()
	rt.Call(Actor{}.SubmitCheckpoint, &SubmitCheckpointParams{Checkpoint: chBytes})
	rt.Verify()

	var st SubnetState
	rt.GetState(&st)
	v, found, err := st.getVoteSet(adt.AsStore(rt), checkCid)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, v.Weight.Equals(abi.NewTokenAmount(40)))

	rt.SetCaller(validator3, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	rt.Call(Actor{}.SubmitCheckpoint, &SubmitCheckpointParams{Checkpoint: chBytes})
	rt.Verify()

	rt.GetState(&st)
	v, found, err = st.getVoteSet(adt.AsStore(rt), checkCid)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, v.Weight.Equals(abi.NewTokenAmount(60)))
	require.Equal(t, gateway.NoPreviousCheck, st.PrevCheckpoint)

	rt.SetCaller(validator2, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.CommitChildCheckpoint, &gateway.CheckpointParams{Checkpoint: chBytes}, big.Zero(), nil, exitcode.Ok)
	rt.Call(Actor{}.SubmitCheckpoint, &SubmitCheckpointParams{Checkpoint: chBytes})
	rt.Verify()

	rt.GetState(&st)
	require.Equal(t, checkCid, st.PrevCheckpoint)
	_, found, err = st.getVoteSet(adt.AsStore(rt), checkCid)
	require.NoError(t, err)
	require.False(t, found)
}

// TestSubmitCheckpointRejectsDuplicateVote: a validator cannot vote twice
// for the same checkpoint.
func TestSubmitCheckpointRejectsDuplicateVote(t *testing.T) {
	rt := getRuntime(t)
	construct(t, rt, abi.NewTokenAmount(1))

	rt.SetCaller(validator1, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(40))
	rt.SetBalance(abi.NewTokenAmount(40))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.Register, nil, abi.NewTokenAmount(40), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/1/tcp/1"})
	rt.Verify()

	rt.SetCaller(validator2, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(40))
	rt.SetBalance(abi.NewTokenAmount(80))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.AddStake, nil, abi.NewTokenAmount(40), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/2/tcp/1"})
	rt.Verify()

	ch := mkCheckpoint(t, 10)
	chBytes := checkpointBytes(t, ch)

	rt.SetCaller(validator1, builtin.AccountActorCodeID)
	rt.SetEpoch(5)
	rt.ExpectValidateCallerAny()
	rt.Call(Actor{}.SubmitCheckpoint, &SubmitCheckpointParams{Checkpoint: chBytes})
	rt.Verify()

	rt.SetCaller(validator1, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	rt.ExpectAbort(exitcode.ErrIllegalState, func() {
		rt.Call(Actor{}.SubmitCheckpoint, &SubmitCheckpointParams{Checkpoint: chBytes})
	})
	rt.Verify()
}

// TestRewardSplitsAcrossValidators: the Gateway's fee is split evenly
// across the validator set.
func TestRewardSplitsAcrossValidators(t *testing.T) {
	rt := getRuntime(t)
	construct(t, rt, abi.NewTokenAmount(1))

	rt.SetCaller(validator1, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(50))
	rt.SetBalance(abi.NewTokenAmount(50))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.Register, nil, abi.NewTokenAmount(50), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/1/tcp/1"})
	rt.Verify()

	rt.SetCaller(validator2, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(50))
	rt.SetBalance(abi.NewTokenAmount(100))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(gatewayAddr, gateway.Methods.AddStake, nil, abi.NewTokenAmount(50), nil, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "/ip4/2/tcp/1"})
	rt.Verify()

	rt.SetCaller(gatewayAddr, builtin.SystemActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(100))
	rt.SetBalance(abi.NewTokenAmount(200))
	rt.ExpectValidateCallerAddr(gatewayAddr)
	rt.ExpectSend(validator1, builtin.MethodSend, nil, abi.NewTokenAmount(50), nil, exitcode.Ok)
	rt.ExpectSend(validator2, builtin.MethodSend, nil, abi.NewTokenAmount(50), nil, exitcode.Ok)
	rt.Call(Actor{}.Reward, &abi.EmptyValue{})
	rt.Verify()
}
