package subnetactor

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

	"github.com/consensus-shipyard/ipc-subnet-actors/gateway"
	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

// QuorumNumerator/QuorumDenominator express the stake-weighted
// supermajority required to commit a checkpoint: two thirds of total
// stake, by weight rather than by validator count.
const (
	QuorumNumerator   = 2
	QuorumDenominator = 3
)

// ConsensusType selects the consensus protocol a subnet runs.
type ConsensusType uint64

const (
	Delegated ConsensusType = iota
	PoW
)

// Status describes where a subnet actor is in its lifecycle.
type Status uint64

const (
	Instantiated Status = iota // waiting to onboard enough stake to register with the Gateway
	Active                     // registered, operating
	Inactive                   // dropped below the minimum validator stake
	Terminating                // draining before Kill
	Killed
)

// ValidatorEntry is one member of the ordered validator set: the
// validator's address paired with its reachable network address.
type ValidatorEntry struct {
	Addr    address.Address
	NetAddr string
}

// VoteSet accumulates stake-weighted votes for one candidate checkpoint,
// keyed by the checkpoint's content hash.
type VoteSet struct {
	Checkpoint gateway.Checkpoint
	Voters     []address.Address
	Weight     abi.TokenAmount
}

func (v *VoteSet) hasVoted(addr address.Address) bool {
	for _, a := range v.Voters {
		if a == addr {
			return true
		}
	}
	return false
}

// SubnetState is the root persisted state of a Subnet actor: the validator
// book (stake table, validator set, total stake) and the vote tally for
// in-flight checkpoints.
type SubnetState struct {
	Name           string
	ParentID       sdk.SubnetID
	IPCGatewayAddr address.Address
	Consensus      ConsensusType

	MinValidatorStake abi.TokenAmount
	CheckPeriod       abi.ChainEpoch
	GenesisEpoch      abi.ChainEpoch
	Genesis           []byte

	Status       Status
	TotalStake   abi.TokenAmount
	StakeTable   cid.Cid // HAMT[address]TokenAmount
	ValidatorSet []ValidatorEntry

	PrevCheckpoint cid.Cid // gateway.NoPreviousCheck until the first checkpoint commits
	Votes          cid.Cid // HAMT[cid]VoteSet, keyed by candidate checkpoint hash
}

// ConstructParams configures a freshly-deployed Subnet actor.
type ConstructParams struct {
	Parent            string
	Name              string
	Consensus         ConsensusType
	MinValidatorStake abi.TokenAmount
	CheckPeriod       abi.ChainEpoch
	Genesis           []byte
	IPCGatewayAddr    address.Address
}

// ConstructState builds the zero-value SubnetState for a new subnet.
func ConstructState(store adt.Store, params *ConstructParams) (*SubnetState, error) {
	emptyStake, err := adt.StoreEmptyMap(store, adt.BalanceTableBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty stake table: %w", err)
	}
	emptyVotes, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty vote tally: %w", err)
	}
	parentID, err := sdk.NewSubnetIDFromString(params.Parent)
	if err != nil {
		return nil, xerrors.Errorf("invalid parent subnet id: %w", err)
	}

	return &SubnetState{
		Name:              params.Name,
		ParentID:          parentID,
		IPCGatewayAddr:    params.IPCGatewayAddr,
		Consensus:         params.Consensus,
		MinValidatorStake: params.MinValidatorStake,
		CheckPeriod:       params.CheckPeriod,
		Genesis:           params.Genesis,
		Status:            Instantiated,
		TotalStake:        big.Zero(),
		StakeTable:        emptyStake,
		ValidatorSet:      make([]ValidatorEntry, 0),
		PrevCheckpoint:    gateway.NoPreviousCheck,
		Votes:             emptyVotes,
	}, nil
}

// ID returns this subnet's own canonical path, derived from its parent and
// its own actor address.
func (st *SubnetState) ID(rt runtime.Runtime) sdk.SubnetID {
	return sdk.NewSubnetID(st.ParentID, rt.Receiver())
}

type addrKey address.Address

func (k addrKey) Key() string {
	return string(address.Address(k).Bytes())
}

func (st *SubnetState) getStake(s adt.Store, addr address.Address) (abi.TokenAmount, bool, error) {
	table, err := adt.AsMap(s, st.StakeTable, adt.BalanceTableBitwidth)
	if err != nil {
		return big.Zero(), false, xerrors.Errorf("failed to load stake table: %w", err)
	}
	var out abi.TokenAmount
	found, err := table.Get(addrKey(addr), &out)
	if err != nil {
		return big.Zero(), false, xerrors.Errorf("failed to get stake for %s: %w", addr, err)
	}
	if !found {
		return big.Zero(), false, nil
	}
	return out, true, nil
}

func (st *SubnetState) setStake(rt runtime.Runtime, addr address.Address, amt abi.TokenAmount) {
	table, err := adt.AsMap(adt.AsStore(rt), st.StakeTable, adt.BalanceTableBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load stake table")
	err = table.Put(addrKey(addr), &amt)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to put stake")
	st.StakeTable, err = table.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush stake table")
}

func (st *SubnetState) deleteStake(rt runtime.Runtime, addr address.Address) {
	table, err := adt.AsMap(adt.AsStore(rt), st.StakeTable, adt.BalanceTableBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load stake table")
	err = table.Delete(addrKey(addr))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to delete stake")
	st.StakeTable, err = table.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush stake table")
}

// isValidator reports whether addr is a current validator set member.
func (st *SubnetState) isValidator(addr address.Address) bool {
	_, ok := st.validatorIndex(addr)
	return ok
}

func (st *SubnetState) validatorIndex(addr address.Address) (int, bool) {
	for i, v := range st.ValidatorSet {
		if v.Addr == addr {
			return i, true
		}
	}
	return 0, false
}

// addOrUpdateValidator upserts addr's net address in the validator set.
func (st *SubnetState) addOrUpdateValidator(addr address.Address, netAddr string) {
	if i, ok := st.validatorIndex(addr); ok {
		st.ValidatorSet[i].NetAddr = netAddr
		return
	}
	st.ValidatorSet = append(st.ValidatorSet, ValidatorEntry{Addr: addr, NetAddr: netAddr})
}

// removeValidator drops addr from the validator set.
func (st *SubnetState) removeValidator(addr address.Address) {
	if i, ok := st.validatorIndex(addr); ok {
		st.ValidatorSet = append(st.ValidatorSet[:i], st.ValidatorSet[i+1:]...)
	}
}

// recomputeStatus applies the status transitions driven purely by total
// stake crossing MinValidatorStake. Terminating/Killed are driven
// exclusively by Kill and are never overwritten here.
func (st *SubnetState) recomputeStatus() {
	switch st.Status {
	case Terminating, Killed:
		return
	case Instantiated:
		if st.TotalStake.GreaterThanEqual(st.MinValidatorStake) {
			st.Status = Active
		}
	case Active:
		if st.TotalStake.LessThan(st.MinValidatorStake) {
			st.Status = Inactive
		}
	case Inactive:
		if st.TotalStake.GreaterThanEqual(st.MinValidatorStake) {
			st.Status = Active
		}
	}
}

func voteKey(c cid.Cid) abi.Keyer {
	return abi.CidKey(c)
}

// HasVoted reports whether validator has already voted for the candidate
// checkpoint keyed by c, backing the api package's IPCHasVotedCheckpoint.
func (st *SubnetState) HasVoted(s adt.Store, c cid.Cid, validator address.Address) (bool, error) {
	v, found, err := st.getVoteSet(s, c)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return v.hasVoted(validator), nil
}

func (st *SubnetState) getVoteSet(s adt.Store, c cid.Cid) (*VoteSet, bool, error) {
	votes, err := adt.AsMap(s, st.Votes, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load vote tally: %w", err)
	}
	var out VoteSet
	found, err := votes.Get(voteKey(c), &out)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get votes for %s: %w", c, err)
	}
	if !found {
		return nil, false, nil
	}
	return &out, true, nil
}

func (st *SubnetState) flushVoteSet(rt runtime.Runtime, c cid.Cid, v *VoteSet) {
	votes, err := adt.AsMap(adt.AsStore(rt), st.Votes, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load vote tally")
	err = votes.Put(voteKey(c), v)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to put votes")
	st.Votes, err = votes.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush vote tally")
}

func (st *SubnetState) purgeVoteSet(rt runtime.Runtime, c cid.Cid) {
	votes, err := adt.AsMap(adt.AsStore(rt), st.Votes, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load vote tally")
	err = votes.Delete(voteKey(c))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to delete votes")
	st.Votes, err = votes.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush vote tally")
}

// hasQuorum reports whether v's weighted vote mass clears two thirds of
// total stake.
func (st *SubnetState) hasQuorum(v *VoteSet) bool {
	weighted := big.Mul(v.Weight, big.NewInt(QuorumDenominator))
	required := big.Mul(st.TotalStake, big.NewInt(QuorumNumerator))
	return weighted.GreaterThanEqual(required)
}
