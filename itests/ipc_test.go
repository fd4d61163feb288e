// Package itests drives a Gateway actor and a Subnet actor together
// through the cross-actor registration and checkpoint flows: each rt.Send
// a source actor expects is followed by manually invoking the destination
// actor's mock runtime with the same params, the way a real
// message-passing VM would route it.
package itests

import (
	"bytes"
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	"github.com/filecoin-project/specs-actors/v7/support/mock"
	tutil "github.com/filecoin-project/specs-actors/v7/support/testing"
	"github.com/stretchr/testify/require"

	"github.com/consensus-shipyard/ipc-subnet-actors/gateway"
	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
	"github.com/consensus-shipyard/ipc-subnet-actors/subnetactor"
)

var (
	rootGatewayAddr = tutil.NewIDAddr(nil, 100)
	subnetActorAddr = tutil.NewIDAddr(nil, 101)
	validator1Addr  = tutil.NewIDAddr(nil, 200)
	validator2Addr  = tutil.NewIDAddr(nil, 201)
	validator3Addr  = tutil.NewIDAddr(nil, 202)
)

func newGatewayRuntime(t testing.TB, addr address.Address) *mock.Runtime {
	return mock.NewBuilder(addr).WithBalance(big.Zero(), big.Zero()).Build(t)
}

func constructRootGateway(t testing.TB, rt *mock.Runtime) {
	rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	rt.SetCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	rt.Call(gateway.Actor{}.Constructor, &gateway.ConstructorParams{
		NetworkName:      "/root",
		CheckpointPeriod: 10,
		MinCollateral:    abi.NewTokenAmount(100),
	})
	rt.Verify()
}

func newSubnetRuntime(t testing.TB) *mock.Runtime {
	return mock.NewBuilder(subnetActorAddr).WithBalance(big.Zero(), big.Zero()).Build(t)
}

func constructSubnetActor(t testing.TB, rt *mock.Runtime, minValidatorStake abi.TokenAmount) {
	rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
	rt.SetCaller(builtin.InitActorAddr, builtin.InitActorCodeID)
	rt.Call(subnetactor.Actor{}.Constructor, &subnetactor.ConstructParams{
		Parent:            "/root",
		Name:              "sub",
		Consensus:         subnetactor.Delegated,
		MinValidatorStake: minValidatorStake,
		CheckPeriod:       10,
		IPCGatewayAddr:    rootGatewayAddr,
	})
	rt.Verify()
}

// TestJoinRegistersSubnetWithGateway: two Joins that together cross the
// minimum validator stake result in exactly one Register call reaching the
// Gateway, which ends up Active with the full accumulated stake.
func TestJoinRegistersSubnetWithGateway(t *testing.T) {
	minValidatorStake := abi.NewTokenAmount(100)
	subRt := newSubnetRuntime(t)
	constructSubnetActor(t, subRt, minValidatorStake)

	gwRt := newGatewayRuntime(t, rootGatewayAddr)
	constructRootGateway(t, gwRt)

	// First Join: half the threshold, no Gateway call yet.
	subRt.SetCaller(validator1Addr, builtin.AccountActorCodeID)
	subRt.SetReceived(abi.NewTokenAmount(50))
	subRt.SetBalance(abi.NewTokenAmount(50))
	subRt.ExpectValidateCallerAny()
	subRt.Call(subnetactor.Actor{}.Join, &subnetactor.JoinParams{ValidatorNetAddr: "/ip4/10.0.0.1/tcp/1"})
	subRt.Verify()

	var subSt subnetactor.SubnetState
	subRt.GetState(&subSt)
	require.Equal(t, subnetactor.Instantiated, subSt.Status)

	// Second Join crosses the threshold: Subnet actor must call Register on
	// the Gateway with the accumulated stake, which this test performs by
	// hand against the Gateway's own runtime.
	subRt.SetCaller(validator2Addr, builtin.AccountActorCodeID)
	subRt.SetReceived(abi.NewTokenAmount(50))
	subRt.SetBalance(abi.NewTokenAmount(100))
	subRt.ExpectValidateCallerAny()
	subRt.ExpectSend(rootGatewayAddr, gateway.Methods.Register, nil, abi.NewTokenAmount(100), nil, exitcode.Ok)
	subRt.Call(subnetactor.Actor{}.Join, &subnetactor.JoinParams{ValidatorNetAddr: "/ip4/10.0.0.2/tcp/1"})
	subRt.Verify()

	subRt.GetState(&subSt)
	require.Equal(t, subnetactor.Active, subSt.Status)

	gwRt.SetCaller(subnetActorAddr, sdk.SubnetActorCodeID)
	gwRt.SetReceived(abi.NewTokenAmount(100))
	gwRt.SetBalance(abi.NewTokenAmount(100))
	gwRt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	out := gwRt.Call(gateway.Actor{}.Register, &abi.EmptyValue{})
	gwRt.Verify()

	id, err := sdk.NewSubnetIDFromString(out.(*gateway.SubnetIDParam).ID)
	require.NoError(t, err)
	require.Equal(t, sdk.NewSubnetID("/root", subnetActorAddr), id)

	var gwSt gateway.GatewayState
	gwRt.GetState(&gwSt)
	sh, found, err := gwSt.GetSubnet(adt.AsStore(gwRt), id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, gateway.Active, sh.Status)
	require.True(t, sh.Stake.Equals(abi.NewTokenAmount(100)))
}

// TestQuorumFlushesCheckpointToGateway: three validators with stakes
// (40, 40, 20) vote V1, V3 (under quorum) then V2 (crossing 2/3 of total
// stake), which must flush the checkpoint locally and forward
// CommitChildCheckpoint to the Gateway exactly once.
func TestQuorumFlushesCheckpointToGateway(t *testing.T) {
	subRt := newSubnetRuntime(t)
	constructSubnetActor(t, subRt, abi.NewTokenAmount(1))

	joinValidator(t, subRt, validator1Addr, abi.NewTokenAmount(40))
	joinValidator(t, subRt, validator2Addr, abi.NewTokenAmount(40))
	joinValidator(t, subRt, validator3Addr, abi.NewTokenAmount(20))

	var subSt subnetactor.SubnetState
	subRt.GetState(&subSt)
	id := subSt.ID(subRt)

	ch := &gateway.Checkpoint{Data: gateway.CheckData{
		Source:       id.String(),
		Epoch:        int64(10),
		PrevCheck:    gateway.NoPreviousCheck,
		CrossMsgsCid: gateway.NoPreviousCheck,
	}}
	buf := mustMarshalCheckpoint(t, ch)

	// CheckPeriod is 10, so at epoch 0 the next expected window is epoch 10.
	subRt.SetEpoch(0)
	subRt.SetCaller(validator1Addr, builtin.AccountActorCodeID)
	subRt.ExpectValidateCallerAny()
	subRt.Call(subnetactor.Actor{}.SubmitCheckpoint, &subnetactor.SubmitCheckpointParams{Checkpoint: buf})
	subRt.Verify()

	subRt.SetCaller(validator3Addr, builtin.AccountActorCodeID)
	subRt.ExpectValidateCallerAny()
	subRt.Call(subnetactor.Actor{}.SubmitCheckpoint, &subnetactor.SubmitCheckpointParams{Checkpoint: buf})
	subRt.Verify()

	subRt.GetState(&subSt)
	require.Equal(t, gateway.NoPreviousCheck, subSt.PrevCheckpoint, "40+20 of 100 is still under 2/3 quorum")

	// V2 crosses quorum (40+20+40 = 100 >= 67): the Subnet actor commits
	// locally and forwards the checkpoint to the Gateway.
	subRt.SetCaller(validator2Addr, builtin.AccountActorCodeID)
	subRt.ExpectValidateCallerAny()
	subRt.ExpectSend(rootGatewayAddr, gateway.Methods.CommitChildCheckpoint, &gateway.CheckpointParams{Checkpoint: buf}, big.Zero(), nil, exitcode.Ok)
	subRt.Call(subnetactor.Actor{}.SubmitCheckpoint, &subnetactor.SubmitCheckpointParams{Checkpoint: buf})
	subRt.Verify()

	subRt.GetState(&subSt)
	require.NotEqual(t, gateway.NoPreviousCheck, subSt.PrevCheckpoint)

	// Drive the forwarded CommitChildCheckpoint against the Gateway by hand.
	gwRt := newGatewayRuntime(t, rootGatewayAddr)
	constructRootGateway(t, gwRt)
	gwRt.SetCaller(subnetActorAddr, sdk.SubnetActorCodeID)
	gwRt.SetReceived(abi.NewTokenAmount(100))
	gwRt.SetBalance(abi.NewTokenAmount(100))
	gwRt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	gwRt.Call(gateway.Actor{}.Register, &abi.EmptyValue{})
	gwRt.Verify()

	gwRt.SetCaller(subnetActorAddr, sdk.SubnetActorCodeID)
	gwRt.SetBalance(abi.NewTokenAmount(100))
	gwRt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	gwRt.Call(gateway.Actor{}.CommitChildCheckpoint, &gateway.CheckpointParams{Checkpoint: buf})
	gwRt.Verify()

	var gwSt gateway.GatewayState
	gwRt.GetState(&gwSt)
	sh, found, err := gwSt.GetSubnet(adt.AsStore(gwRt), id)
	require.NoError(t, err)
	require.True(t, found)
	require.NotEqual(t, gateway.NoPreviousCheck, sh.PrevCheckpoint)
}

func joinValidator(t testing.TB, rt *mock.Runtime, validator address.Address, stake abi.TokenAmount) {
	var st subnetactor.SubnetState
	rt.GetState(&st)
	wasInstantiated := st.Status == subnetactor.Instantiated
	newTotal := big.Add(st.TotalStake, stake)

	rt.SetCaller(validator, builtin.AccountActorCodeID)
	rt.SetReceived(stake)
	rt.SetBalance(newTotal)
	rt.ExpectValidateCallerAny()
	if wasInstantiated && newTotal.GreaterThanEqual(st.MinValidatorStake) {
		rt.ExpectSend(st.IPCGatewayAddr, gateway.Methods.Register, nil, newTotal, nil, exitcode.Ok)
	} else if !wasInstantiated {
		rt.ExpectSend(st.IPCGatewayAddr, gateway.Methods.AddStake, nil, stake, nil, exitcode.Ok)
	}
	rt.Call(subnetactor.Actor{}.Join, &subnetactor.JoinParams{ValidatorNetAddr: "/ip4/10.0.0.9/tcp/1"})
	rt.Verify()
}

func mustMarshalCheckpoint(t testing.TB, ch *gateway.Checkpoint) []byte {
	var buf bytes.Buffer
	require.NoError(t, ch.MarshalCBOR(&buf))
	return buf.Bytes()
}
