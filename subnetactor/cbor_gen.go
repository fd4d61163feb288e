// Code generated by github.com/whyrusleeping/cbor-gen. Hand-adapted: keep
// in sync with gen/gen.go if any of these shapes change.

package subnetactor

import (
	"fmt"
	"io"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	cbg "github.com/whyrusleeping/cbor-gen"
	xerrors "golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

var _ = xerrors.Errorf

func (t *ValidatorEntry) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{130}); err != nil { // array, 2 fields
		return err
	}
	if err := cbg.WriteByteArray(w, t.Addr.Bytes()); err != nil {
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.NetAddr))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.NetAddr); err != nil {
		return err
	}
	return nil
}

func (t *ValidatorEntry) UnmarshalCBOR(r io.Reader) error {
	*t = ValidatorEntry{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 2 {
		return fmt.Errorf("cbor input for ValidatorEntry had wrong shape")
	}

	addrBytes, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	addr, err := address.NewFromBytes(addrBytes)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.Addr: %w", err)
	}
	t.Addr = addr

	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.NetAddr = s
	return nil
}

func (t *VoteSet) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{131}); err != nil { // array, 3 fields
		return err
	}

	if err := t.Checkpoint.MarshalCBOR(w); err != nil {
		return err
	}

	if err := cbg.CborWriteHeader(w, cbg.MajArray, uint64(len(t.Voters))); err != nil {
		return err
	}
	for _, v := range t.Voters {
		if err := cbg.WriteByteArray(w, v.Bytes()); err != nil {
			return err
		}
	}

	if err := t.Weight.MarshalCBOR(w); err != nil {
		return err
	}
	return nil
}

func (t *VoteSet) UnmarshalCBOR(r io.Reader) error {
	*t = VoteSet{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 3 {
		return fmt.Errorf("cbor input for VoteSet had wrong shape")
	}

	if err := t.Checkpoint.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Checkpoint: %w", err)
	}

	maj, n, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("t.Voters: expected array")
	}
	if n > 0 {
		t.Voters = make([]address.Address, n)
	}
	for i := uint64(0); i < n; i++ {
		b, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
		if err != nil {
			return err
		}
		a, err := address.NewFromBytes(b)
		if err != nil {
			return xerrors.Errorf("unmarshalling t.Voters[%d]: %w", i, err)
		}
		t.Voters[i] = a
	}

	if err := t.Weight.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Weight: %w", err)
	}
	return nil
}

func (t *SubnetState) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{142}); err != nil { // array, 14 fields
		return err
	}

	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.Name))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.Name); err != nil {
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(string(t.ParentID)))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, string(t.ParentID)); err != nil {
		return err
	}
	if err := cbg.WriteByteArray(w, t.IPCGatewayAddr.Bytes()); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.Consensus)); err != nil {
		return err
	}
	if err := t.MinValidatorStake.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.CheckPeriod)); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.GenesisEpoch)); err != nil {
		return err
	}
	if err := cbg.WriteByteArray(w, t.Genesis); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.Status)); err != nil {
		return err
	}
	if err := t.TotalStake.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.StakeTable); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajArray, uint64(len(t.ValidatorSet))); err != nil {
		return err
	}
	for _, v := range t.ValidatorSet {
		if err := v.MarshalCBOR(w); err != nil {
			return err
		}
	}
	if err := cbg.WriteCid(w, t.PrevCheckpoint); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.Votes); err != nil {
		return err
	}
	return nil
}

func (t *SubnetState) UnmarshalCBOR(r io.Reader) error {
	*t = SubnetState{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 14 {
		return fmt.Errorf("cbor input for SubnetState had wrong shape")
	}

	name, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.Name = name

	parent, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.ParentID = sdk.SubnetID(parent)

	addrBytes, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	addr, err := address.NewFromBytes(addrBytes)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.IPCGatewayAddr: %w", err)
	}
	t.IPCGatewayAddr = addr

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.Consensus")
	}
	t.Consensus = ConsensusType(extra)

	if err := t.MinValidatorStake.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.MinValidatorStake: %w", err)
	}

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.CheckPeriod")
	}
	t.CheckPeriod = abi.ChainEpoch(extra)

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.GenesisEpoch")
	}
	t.GenesisEpoch = abi.ChainEpoch(extra)

	genesis, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	t.Genesis = genesis

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.Status")
	}
	t.Status = Status(extra)

	if err := t.TotalStake.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.TotalStake: %w", err)
	}

	c, err := cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.StakeTable: %w", err)
	}
	t.StakeTable = c

	maj, n, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("t.ValidatorSet: expected array")
	}
	if n > 0 {
		t.ValidatorSet = make([]ValidatorEntry, n)
	}
	for i := uint64(0); i < n; i++ {
		if err := t.ValidatorSet[i].UnmarshalCBOR(br); err != nil {
			return xerrors.Errorf("unmarshalling t.ValidatorSet[%d]: %w", i, err)
		}
	}

	prev, err := cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.PrevCheckpoint: %w", err)
	}
	t.PrevCheckpoint = prev

	votes, err := cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.Votes: %w", err)
	}
	t.Votes = votes
	return nil
}

func (t *ConstructParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{135}); err != nil { // array, 7 fields
		return err
	}

	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.Parent))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.Parent); err != nil {
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.Name))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.Name); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.Consensus)); err != nil {
		return err
	}
	if err := t.MinValidatorStake.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.CheckPeriod)); err != nil {
		return err
	}
	if err := cbg.WriteByteArray(w, t.Genesis); err != nil {
		return err
	}
	if err := cbg.WriteByteArray(w, t.IPCGatewayAddr.Bytes()); err != nil {
		return err
	}
	return nil
}

func (t *ConstructParams) UnmarshalCBOR(r io.Reader) error {
	*t = ConstructParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 7 {
		return fmt.Errorf("cbor input for ConstructParams had wrong shape")
	}

	parent, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.Parent = parent

	name, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.Name = name

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.Consensus")
	}
	t.Consensus = ConsensusType(extra)

	if err := t.MinValidatorStake.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.MinValidatorStake: %w", err)
	}

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.CheckPeriod")
	}
	t.CheckPeriod = abi.ChainEpoch(extra)

	genesis, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	t.Genesis = genesis

	addrBytes, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	addr, err := address.NewFromBytes(addrBytes)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.IPCGatewayAddr: %w", err)
	}
	t.IPCGatewayAddr = addr
	return nil
}

func (t *JoinParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{129}); err != nil { // array, 1 field
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.ValidatorNetAddr))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.ValidatorNetAddr); err != nil {
		return err
	}
	return nil
}

func (t *JoinParams) UnmarshalCBOR(r io.Reader) error {
	*t = JoinParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 1 {
		return fmt.Errorf("cbor input for JoinParams had wrong shape")
	}
	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.ValidatorNetAddr = s
	return nil
}

func (t *SubmitCheckpointParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{129}); err != nil { // array, 1 field
		return err
	}
	if err := cbg.WriteByteArray(w, t.Checkpoint); err != nil {
		return err
	}
	return nil
}

func (t *SubmitCheckpointParams) UnmarshalCBOR(r io.Reader) error {
	*t = SubmitCheckpointParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 1 {
		return fmt.Errorf("cbor input for SubmitCheckpointParams had wrong shape")
	}
	b, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	t.Checkpoint = b
	return nil
}
