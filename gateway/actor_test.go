package gateway

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

	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

var (
	gatewayAddr = tutil.NewIDAddr(nil, 100)
	subnetAddr1 = tutil.NewIDAddr(nil, 101)
	subnetAddr2 = tutil.NewIDAddr(nil, 102)
	callerAddr1 = tutil.NewIDAddr(nil, 103)
	aliceAddr   = tutil.NewIDAddr(nil, 200)
	bobAddr     = tutil.NewIDAddr(nil, 201)
)

func getRuntime(t testing.TB) *mock.Runtime {
	return mock.NewBuilder(gatewayAddr).WithBalance(big.Zero(), big.Zero()).Build(t)
}

func constructGateway(t testing.TB, rt *mock.Runtime) {
	rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	rt.SetCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	params := &ConstructorParams{
		NetworkName:      "/root",
		CheckpointPeriod: 10,
		MinCollateral:    abi.NewTokenAmount(100),
	}
	rt.Call(Actor{}.Constructor, params)
	rt.Verify()
}

func registerSubnet(t testing.TB, rt *mock.Runtime, actor address.Address, stake abi.TokenAmount) sdk.SubnetID {
	rt.SetCaller(actor, sdk.SubnetActorCodeID)
	rt.SetReceived(stake)
	rt.SetBalance(stake)
	rt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	out := rt.Call(Actor{}.Register, &abi.EmptyValue{})
	rt.Verify()
	id, err := sdk.NewSubnetIDFromString(out.(*SubnetIDParam).ID)
	require.NoError(t, err)
	return id
}

// TestRegisterActivatesOnSufficientStake: a subnet registered below the
// collateral threshold starts Inactive and flips to Active once its stake
// clears it.
func TestRegisterActivatesOnSufficientStake(t *testing.T) {
	rt := getRuntime(t)
	constructGateway(t, rt)

	id := registerSubnet(t, rt, subnetAddr1, abi.NewTokenAmount(50))
	var st GatewayState
	rt.GetState(&st)
	sh, found, err := st.GetSubnet(adt.AsStore(rt), id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Inactive, sh.Status)

	rt.SetCaller(subnetAddr1, sdk.SubnetActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(100))
	rt.SetBalance(abi.NewTokenAmount(150))
	rt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	rt.Call(Actor{}.AddStake, &abi.EmptyValue{})
	rt.Verify()

	rt.GetState(&st)
	sh, found, err = st.GetSubnet(adt.AsStore(rt), id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Active, sh.Status)
	require.True(t, sh.Stake.Equals(abi.NewTokenAmount(150)))
}

// TestFundTopDownHappyPath: Fund enqueues a top-down message net of
// CrossMsgFee on the parent Gateway, and ApplyMessage on the child Gateway
// credits the destination with that net value under the expected nonce.
func TestFundTopDownHappyPath(t *testing.T) {
	rt := getRuntime(t)
	constructGateway(t, rt)
	id := registerSubnet(t, rt, subnetAddr1, abi.NewTokenAmount(1000))

	rt.SetCaller(callerAddr1, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(1000))
	rt.SetBalance(abi.NewTokenAmount(1000))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(subnetAddr1, RewardMethodNum, nil, CrossMsgFee, nil, exitcode.Ok)
	rt.Call(Actor{}.Fund, &SubnetIDParam{ID: id.String()})
	rt.Verify()

	var st GatewayState
	rt.GetState(&st)
	sh, found, err := st.GetSubnet(adt.AsStore(rt), id)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, sh.TopDownNonce)

	queue, err := adt.AsArray(adt.AsStore(rt), sh.TopDownMsgs, CrossMsgsAMTBitwidth)
	require.NoError(t, err)
	var msg StorableMsg
	fnd, err := queue.Get(0, &msg)
	require.NoError(t, err)
	require.True(t, fnd)
	require.True(t, msg.Value.Equals(abi.NewTokenAmount(900)))
	require.EqualValues(t, 0, msg.Nonce)
	require.True(t, sh.CircSupply.Equals(abi.NewTokenAmount(900)), "net funded value circulates in the child")

	// The child network runs its own Gateway instance; apply delivery there.
	// The default Minter is a no-op, so the child Gateway starts out holding
	// the 900 that a real mint hook would credit before the delivery send.
	childRt := mock.NewBuilder(gatewayAddr).WithBalance(abi.NewTokenAmount(900), big.Zero()).Build(t)
	childRt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	childRt.SetCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	childRt.Call(Actor{}.Constructor, &ConstructorParams{
		NetworkName:      id.String(),
		CheckpointPeriod: 10,
		MinCollateral:    abi.NewTokenAmount(100),
	})
	childRt.Verify()

	childRt.SetCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	childRt.SetEpoch(1)
	childRt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	childRt.ExpectSend(callerAddr1, builtin.MethodSend, rawParams(nil), abi.NewTokenAmount(900), nil, exitcode.Ok)
	childRt.Call(Actor{}.ApplyMessage, &ApplyMsgParams{CrossMsg: CrossMsg{Msg: msg}})
	childRt.Verify()

	var childSt GatewayState
	childRt.GetState(&childSt)
	require.EqualValues(t, 1, childSt.AppliedTopDownNonce)
}

// TestKillGuardedByCirculatingSupply: Kill is rejected while a subnet's
// circulating supply is non-zero, and succeeds once it is drained.
func TestKillGuardedByCirculatingSupply(t *testing.T) {
	rt := getRuntime(t)
	constructGateway(t, rt)
	id := registerSubnet(t, rt, subnetAddr1, abi.NewTokenAmount(1000))

	// Fund 105: 5 net of fee starts circulating inside the child.
	rt.SetCaller(callerAddr1, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(105))
	rt.SetBalance(abi.NewTokenAmount(1105))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(subnetAddr1, RewardMethodNum, nil, CrossMsgFee, nil, exitcode.Ok)
	rt.Call(Actor{}.Fund, &SubnetIDParam{ID: id.String()})
	rt.Verify()

	rt.SetCaller(subnetAddr1, sdk.SubnetActorCodeID)
	rt.SetBalance(abi.NewTokenAmount(1000))
	rt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	rt.ExpectAbort(exitcode.ErrIllegalState, func() {
		rt.Call(Actor{}.Kill, &abi.EmptyValue{})
	})
	rt.Verify()

	// Drain the 5 back out, standing in for the applied bottom-ups a real
	// checkpoint commit would perform.
	var st GatewayState
	rt.GetState(&st)
	sh, _, err := st.GetSubnet(adt.AsStore(rt), id)
	require.NoError(t, err)
	sh.CircSupply = big.Zero()
	st.flushSubnet(rt, sh)
	rt.ReplaceState(&st)

	rt.SetCaller(subnetAddr1, sdk.SubnetActorCodeID)
	rt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	rt.ExpectSend(subnetAddr1, builtin.MethodSend, nil, abi.NewTokenAmount(1000), nil, exitcode.Ok)
	rt.Call(Actor{}.Kill, &abi.EmptyValue{})
	rt.Verify()

	rt.GetState(&st)
	_, found, err := st.GetSubnet(adt.AsStore(rt), id)
	require.NoError(t, err)
	require.False(t, found)
}

// TestPostboxWhitelistGatesPropagate: a non-owner Propagate call on a
// parked postbox entry fails, and succeeds once WhitelistPropagator grants
// it.
func TestPostboxWhitelistGatesPropagate(t *testing.T) {
	rt := getRuntime(t)
	constructGateway(t, rt)
	childID := registerSubnet(t, rt, subnetAddr2, abi.NewTokenAmount(1000))

	var st GatewayState
	rt.GetState(&st)
	from, err := sdk.NewIPCAddress(sdk.SubnetID("/root/"+subnetAddr1.String()), aliceAddr)
	require.NoError(t, err)
	to, err := sdk.NewIPCAddress(childID, aliceAddr)
	require.NoError(t, err)
	msg := StorableMsg{From: from, To: to, Value: abi.NewTokenAmount(10), Method: builtin.MethodSend}
	key := st.parkInPostbox(rt, &msg, []address.Address{aliceAddr})
	rt.ReplaceState(&st)

	rt.SetCaller(bobAddr, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(200))
	rt.SetBalance(abi.NewTokenAmount(1200))
	rt.ExpectValidateCallerAny()
	rt.ExpectAbort(exitcode.ErrIllegalState, func() {
		rt.Call(Actor{}.Propagate, &PropagateParams{PostboxCid: key})
	})
	rt.Verify()

	rt.SetCaller(aliceAddr, builtin.AccountActorCodeID)
	rt.SetReceived(big.Zero())
	rt.ExpectValidateCallerAny()
	rt.Call(Actor{}.WhitelistPropagator, &WhitelistPropagatorParams{PostboxCid: key, ToAdd: []address.Address{bobAddr}})
	rt.Verify()

	rt.SetCaller(bobAddr, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(200))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(bobAddr, builtin.MethodSend, nil, abi.NewTokenAmount(100), nil, exitcode.Ok)
	rt.ExpectSend(subnetAddr2, RewardMethodNum, nil, CrossMsgFee, nil, exitcode.Ok)
	rt.Call(Actor{}.Propagate, &PropagateParams{PostboxCid: key})
	rt.Verify()
}

// TestSealCheckpointRoundTripsCircSupplyDecrement drives the checkpoint
// commit pipeline end to end: SealCheckpoint must be able to turn a real
// bottom-up cross-msgs bundle into a CrossMsgsCid that
// CommitChildCheckpoint can later resolve and apply, decrementing a
// subnet's circulating supply.
func TestSealCheckpointRoundTripsCircSupplyDecrement(t *testing.T) {
	rt := getRuntime(t)

	rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	rt.SetCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	rt.Call(Actor{}.Constructor, &ConstructorParams{
		NetworkName:      "/root/" + subnetAddr1.String(),
		CheckpointPeriod: 10,
		MinCollateral:    abi.NewTokenAmount(100),
	})
	rt.Verify()

	childID := registerSubnet(t, rt, subnetAddr2, abi.NewTokenAmount(1000))

	// Fund the child so the commit below has real circulating supply to
	// decrement: 1000 attached, 900 net of fee enters the child's subtree.
	rt.SetCaller(callerAddr1, builtin.AccountActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(1000))
	rt.SetBalance(abi.NewTokenAmount(1000))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(subnetAddr2, RewardMethodNum, nil, CrossMsgFee, nil, exitcode.Ok)
	rt.Call(Actor{}.Fund, &SubnetIDParam{ID: childID.String()})
	rt.Verify()

	var st GatewayState
	rt.GetState(&st)
	sh, found, err := st.GetSubnet(adt.AsStore(rt), childID)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, sh.CircSupply.Equals(abi.NewTokenAmount(900)))

	// A non-signable caller sends value to a sibling subnet that shares no
	// ancestor closer than "/root": a bottom-up message that has not yet
	// reached its turning point ("/root"), so it accumulates in this
	// network's own checkpoint window
	// instead of being delivered locally.
	rt.SetEpoch(5)
	rt.SetCaller(callerAddr1, builtin.StorageMarketActorCodeID)
	rt.SetReceived(abi.NewTokenAmount(300))
	rt.SetBalance(abi.NewTokenAmount(300))
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(builtin.BurntFundsActorAddr, builtin.MethodSend, nil, abi.NewTokenAmount(200), nil, exitcode.Ok)
	rt.Call(Actor{}.SendCross, &CrossMsgParams{
		Msg:         CrossMsg{Msg: StorableMsg{To: sdk.IPCAddress{Raw: aliceAddr}, Value: abi.NewTokenAmount(300)}},
		Destination: "/root/" + callerAddr1.String(),
	})
	rt.Verify()

	// Seal the window: this is what finally calls storeCrossMsgsBundle and
	// attaches a resolvable CrossMsgsCid.
	rt.ExpectValidateCallerAny()
	sealed := rt.Call(Actor{}.SealCheckpoint, &abi.EmptyValue{}).(*SealCheckpointResult)
	rt.Verify()
	require.NotEqual(t, NoPreviousCheck, sealed.Data.CrossMsgsCid)

	rt.GetState(&st)
	bundle, found, err := st.getCrossMsgsBundle(adt.AsStore(rt), sealed.Data.CrossMsgsCid)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, bundle.Value.Equals(abi.NewTokenAmount(200)))
	require.True(t, bundle.Fee.Equals(CrossMsgFee))

	ch := &Checkpoint{Data: CheckData{
		Source:       childID.String(),
		Epoch:        sealed.Data.Epoch,
		PrevCheck:    NoPreviousCheck,
		CrossMsgsCid: sealed.Data.CrossMsgsCid,
	}}
	buf := mustMarshalCheckpointBytes(t, ch)

	rt.SetCaller(subnetAddr2, sdk.SubnetActorCodeID)
	rt.SetBalance(abi.NewTokenAmount(300))
	rt.ExpectValidateCallerType(sdk.SubnetActorCodeID)
	rt.ExpectSend(subnetAddr2, RewardMethodNum, nil, CrossMsgFee, nil, exitcode.Ok)
	rt.Call(Actor{}.CommitChildCheckpoint, &CheckpointParams{Checkpoint: buf})
	rt.Verify()

	rt.GetState(&st)
	sh, found, err = st.GetSubnet(adt.AsStore(rt), childID)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, sh.CircSupply.Equals(abi.NewTokenAmount(700)))
	require.NotEqual(t, NoPreviousCheck, sh.PrevCheckpoint)
}

func mustMarshalCheckpointBytes(t testing.TB, ch *Checkpoint) []byte {
	var buf bytes.Buffer
	require.NoError(t, ch.MarshalCBOR(&buf))
	return buf.Bytes()
}
