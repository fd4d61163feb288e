// Code generated by github.com/whyrusleeping/cbor-gen. Hand-adapted: keep
// in sync with gen/gen.go if any of these shapes change.

package gateway

import (
	"fmt"
	"io"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	cid "github.com/ipfs/go-cid"
	cbg "github.com/whyrusleeping/cbor-gen"
	xerrors "golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

var _ = xerrors.Errorf

func (t *StorableMsg) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{134}); err != nil { // array, 6 fields
		return err
	}

	if err := t.From.MarshalCBOR(w); err != nil {
		return err
	}
	if err := t.To.MarshalCBOR(w); err != nil {
		return err
	}
	if err := t.Value.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, t.Nonce); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.Method)); err != nil {
		return err
	}
	if err := cbg.WriteByteArray(w, t.Params); err != nil {
		return err
	}
	return nil
}

func (t *StorableMsg) UnmarshalCBOR(r io.Reader) error {
	*t = StorableMsg{}

	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 6 {
		return fmt.Errorf("cbor input for StorableMsg had wrong shape")
	}

	if err := t.From.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.From: %w", err)
	}
	if err := t.To.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.To: %w", err)
	}
	{
		if err := t.Value.UnmarshalCBOR(br); err != nil {
			return xerrors.Errorf("unmarshalling t.Value: %w", err)
		}
	}
	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.Nonce")
	}
	t.Nonce = extra

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.Method")
	}
	t.Method = abi.MethodNum(extra)

	params, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	t.Params = params
	return nil
}

func (t *CrossMsg) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{130}); err != nil { // array, 2 fields
		return err
	}
	if err := t.Msg.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.WriteBool(w, t.Wrapped); err != nil {
		return err
	}
	return nil
}

func (t *CrossMsg) UnmarshalCBOR(r io.Reader) error {
	*t = CrossMsg{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 2 {
		return fmt.Errorf("cbor input for CrossMsg had wrong shape")
	}
	if err := t.Msg.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Msg: %w", err)
	}
	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajOther {
		return fmt.Errorf("booleans should be major type 7")
	}
	switch extra {
	case 20:
		t.Wrapped = false
	case 21:
		t.Wrapped = true
	default:
		return fmt.Errorf("booleans are either major type 7, value 20 or 21 (got %d)", extra)
	}
	return nil
}

func (t *CrossMsgsBundle) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{131}); err != nil { // array, 3 fields
		return err
	}

	if err := cbg.CborWriteHeader(w, cbg.MajArray, uint64(len(t.Msgs))); err != nil {
		return err
	}
	for _, m := range t.Msgs {
		if err := m.MarshalCBOR(w); err != nil {
			return err
		}
	}

	if err := t.Value.MarshalCBOR(w); err != nil {
		return err
	}
	if err := t.Fee.MarshalCBOR(w); err != nil {
		return err
	}
	return nil
}

func (t *CrossMsgsBundle) UnmarshalCBOR(r io.Reader) error {
	*t = CrossMsgsBundle{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 3 {
		return fmt.Errorf("cbor input for CrossMsgsBundle had wrong shape")
	}

	maj, n, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("t.Msgs: expected array")
	}
	if n > 0 {
		t.Msgs = make([]CrossMsg, n)
	}
	for i := uint64(0); i < n; i++ {
		if err := t.Msgs[i].UnmarshalCBOR(br); err != nil {
			return xerrors.Errorf("unmarshalling t.Msgs[%d]: %w", i, err)
		}
	}

	if err := t.Value.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Value: %w", err)
	}
	if err := t.Fee.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Fee: %w", err)
	}
	return nil
}

func (t *ChildCheck) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{130}); err != nil { // array, 2 fields
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.Source))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.Source); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.Check); err != nil {
		return err
	}
	return nil
}

func (t *ChildCheck) UnmarshalCBOR(r io.Reader) error {
	*t = ChildCheck{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 2 {
		return fmt.Errorf("cbor input for ChildCheck had wrong shape")
	}
	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.Source = s
	c, err := cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.Check: %w", err)
	}
	t.Check = c
	return nil
}

func (t *WindowCheckpoint) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{132}); err != nil { // array, 4 fields
		return err
	}

	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.Source))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.Source); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.Epoch)); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajArray, uint64(len(t.Childs))); err != nil {
		return err
	}
	for _, c := range t.Childs {
		if err := c.MarshalCBOR(w); err != nil {
			return err
		}
	}
	if err := t.CrossMsg.MarshalCBOR(w); err != nil {
		return err
	}
	return nil
}

func (t *WindowCheckpoint) UnmarshalCBOR(r io.Reader) error {
	*t = WindowCheckpoint{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 4 {
		return fmt.Errorf("cbor input for WindowCheckpoint had wrong shape")
	}
	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.Source = s

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.Epoch")
	}
	t.Epoch = abi.ChainEpoch(extra)

	maj, n, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("t.Childs: expected array")
	}
	if n > 0 {
		t.Childs = make([]ChildCheck, n)
	}
	for i := uint64(0); i < n; i++ {
		if err := t.Childs[i].UnmarshalCBOR(br); err != nil {
			return xerrors.Errorf("unmarshalling t.Childs[%d]: %w", i, err)
		}
	}

	if err := t.CrossMsg.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.CrossMsg: %w", err)
	}
	return nil
}

func (t *Subnet) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{137}); err != nil { // array, 9 fields
		return err
	}

	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(string(t.ID)))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, string(t.ID)); err != nil {
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(string(t.ParentID)))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, string(t.ParentID)); err != nil {
		return err
	}
	if err := t.Stake.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.Status)); err != nil {
		return err
	}
	if err := t.CircSupply.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.PrevCheckpoint); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, t.TopDownNonce); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.TopDownMsgs); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.GenesisEpoch)); err != nil {
		return err
	}
	return nil
}

func (t *Subnet) UnmarshalCBOR(r io.Reader) error {
	*t = Subnet{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 9 {
		return fmt.Errorf("cbor input for Subnet had wrong shape")
	}

	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.ID = sdk.SubnetID(s)

	s, err = cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.ParentID = sdk.SubnetID(s)

	if err := t.Stake.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Stake: %w", err)
	}

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.Status")
	}
	t.Status = Status(extra)

	if err := t.CircSupply.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.CircSupply: %w", err)
	}

	c, err := cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.PrevCheckpoint: %w", err)
	}
	t.PrevCheckpoint = c

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.TopDownNonce")
	}
	t.TopDownNonce = extra

	c, err = cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.TopDownMsgs: %w", err)
	}
	t.TopDownMsgs = c

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.GenesisEpoch")
	}
	t.GenesisEpoch = abi.ChainEpoch(extra)

	return nil
}

func (t *GatewayState) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{141}); err != nil { // array, 13 fields
		return err
	}

	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(string(t.NetworkName)))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, string(t.NetworkName)); err != nil {
		return err
	}
	if err := t.MinCollateral.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, t.TotalSubnets); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.Subnets); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, uint64(t.CheckPeriod)); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.WindowChecks); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.CrossMsgsRegistry); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.Checkpoints); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, t.BottomUpNonce); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.BottomUpMsgs); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, t.AppliedTopDownNonce); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, t.AppliedBottomUpNonce); err != nil {
		return err
	}
	if err := cbg.WriteCid(w, t.Postbox); err != nil {
		return err
	}
	return nil
}

func (t *GatewayState) UnmarshalCBOR(r io.Reader) error {
	*t = GatewayState{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 13 {
		return fmt.Errorf("cbor input for GatewayState had wrong shape")
	}

	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.NetworkName = sdk.SubnetID(s)

	if err := t.MinCollateral.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.MinCollateral: %w", err)
	}

	readUint := func(field string) uint64 {
		maj, extra, err2 := cbg.CborReadHeaderBuf(br, scratch)
		if err2 != nil {
			err = err2
			return 0
		}
		if maj != cbg.MajUnsignedInt {
			err = fmt.Errorf("wrong type for %s", field)
			return 0
		}
		return extra
	}
	readCid := func(field string) cid.Cid {
		c, err2 := cbg.ReadCid(br)
		if err2 != nil {
			err = xerrors.Errorf("unmarshalling %s: %w", field, err2)
		}
		return c
	}

	t.TotalSubnets = readUint("t.TotalSubnets")
	if err != nil {
		return err
	}
	t.Subnets = readCid("t.Subnets")
	if err != nil {
		return err
	}
	t.CheckPeriod = abi.ChainEpoch(readUint("t.CheckPeriod"))
	if err != nil {
		return err
	}
	t.WindowChecks = readCid("t.WindowChecks")
	if err != nil {
		return err
	}
	t.CrossMsgsRegistry = readCid("t.CrossMsgsRegistry")
	if err != nil {
		return err
	}
	t.Checkpoints = readCid("t.Checkpoints")
	if err != nil {
		return err
	}
	t.BottomUpNonce = readUint("t.BottomUpNonce")
	if err != nil {
		return err
	}
	t.BottomUpMsgs = readCid("t.BottomUpMsgs")
	if err != nil {
		return err
	}
	t.AppliedTopDownNonce = readUint("t.AppliedTopDownNonce")
	if err != nil {
		return err
	}
	t.AppliedBottomUpNonce = readUint("t.AppliedBottomUpNonce")
	if err != nil {
		return err
	}
	t.Postbox = readCid("t.Postbox")
	if err != nil {
		return err
	}
	return nil
}

func (t *PostBoxItem) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{130}); err != nil { // array, 2 fields
		return err
	}
	if err := t.Msg.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajArray, uint64(len(t.Owners))); err != nil {
		return err
	}
	for _, o := range t.Owners {
		if err := o.MarshalCBOR(w); err != nil {
			return err
		}
	}
	return nil
}

func (t *PostBoxItem) UnmarshalCBOR(r io.Reader) error {
	*t = PostBoxItem{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 2 {
		return fmt.Errorf("cbor input for PostBoxItem had wrong shape")
	}
	if err := t.Msg.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Msg: %w", err)
	}

	maj, n, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("t.Owners: expected array")
	}
	if n > 0 {
		t.Owners = make([]address.Address, n)
	}
	for i := uint64(0); i < n; i++ {
		if err := t.Owners[i].UnmarshalCBOR(br); err != nil {
			return xerrors.Errorf("unmarshalling t.Owners[%d]: %w", i, err)
		}
	}
	return nil
}

func (t *ConstructorParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{131}); err != nil { // array, 3 fields
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.NetworkName))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.NetworkName); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajUnsignedInt, t.CheckpointPeriod); err != nil {
		return err
	}
	if err := t.MinCollateral.MarshalCBOR(w); err != nil {
		return err
	}
	return nil
}

func (t *ConstructorParams) UnmarshalCBOR(r io.Reader) error {
	*t = ConstructorParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 3 {
		return fmt.Errorf("cbor input for ConstructorParams had wrong shape")
	}
	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.NetworkName = s

	maj, extra, err = cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajUnsignedInt {
		return fmt.Errorf("wrong type for t.CheckpointPeriod")
	}
	t.CheckpointPeriod = extra

	if err := t.MinCollateral.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.MinCollateral: %w", err)
	}
	return nil
}

func (t *SubnetIDParam) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{129}); err != nil { // array, 1 field
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.ID))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.ID); err != nil {
		return err
	}
	return nil
}

func (t *SubnetIDParam) UnmarshalCBOR(r io.Reader) error {
	*t = SubnetIDParam{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 1 {
		return fmt.Errorf("cbor input for SubnetIDParam had wrong shape")
	}
	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.ID = s
	return nil
}

func (t *FundParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{129}); err != nil { // array, 1 field
		return err
	}
	if err := t.Value.MarshalCBOR(w); err != nil {
		return err
	}
	return nil
}

func (t *FundParams) UnmarshalCBOR(r io.Reader) error {
	*t = FundParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 1 {
		return fmt.Errorf("cbor input for FundParams had wrong shape")
	}
	if err := t.Value.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Value: %w", err)
	}
	return nil
}

func (t *CheckpointParams) MarshalCBOR(w io.Writer) error {
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

func (t *CheckpointParams) UnmarshalCBOR(r io.Reader) error {
	*t = CheckpointParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 1 {
		return fmt.Errorf("cbor input for CheckpointParams had wrong shape")
	}
	checkpoint, err := cbg.ReadByteArray(br, cbg.ByteArrayMaxLen)
	if err != nil {
		return err
	}
	t.Checkpoint = checkpoint
	return nil
}

func (t *CrossMsgParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{130}); err != nil { // array, 2 fields
		return err
	}
	if err := t.Msg.MarshalCBOR(w); err != nil {
		return err
	}
	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.Destination))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.Destination); err != nil {
		return err
	}
	return nil
}

func (t *CrossMsgParams) UnmarshalCBOR(r io.Reader) error {
	*t = CrossMsgParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 2 {
		return fmt.Errorf("cbor input for CrossMsgParams had wrong shape")
	}
	if err := t.Msg.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Msg: %w", err)
	}
	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.Destination = s
	return nil
}

func (t *ApplyMsgParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{129}); err != nil { // array, 1 field
		return err
	}
	if err := t.CrossMsg.MarshalCBOR(w); err != nil {
		return err
	}
	return nil
}

func (t *ApplyMsgParams) UnmarshalCBOR(r io.Reader) error {
	*t = ApplyMsgParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 1 {
		return fmt.Errorf("cbor input for ApplyMsgParams had wrong shape")
	}
	if err := t.CrossMsg.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.CrossMsg: %w", err)
	}
	return nil
}

func (t *PropagateParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{129}); err != nil { // array, 1 field
		return err
	}
	if err := cbg.WriteCid(w, t.PostboxCid); err != nil {
		return err
	}
	return nil
}

func (t *PropagateParams) UnmarshalCBOR(r io.Reader) error {
	*t = PropagateParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 1 {
		return fmt.Errorf("cbor input for PropagateParams had wrong shape")
	}
	c, err := cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.PostboxCid: %w", err)
	}
	t.PostboxCid = c
	return nil
}

func (t *WhitelistPropagatorParams) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{130}); err != nil { // array, 2 fields
		return err
	}
	if err := cbg.WriteCid(w, t.PostboxCid); err != nil {
		return err
	}
	if err := cbg.CborWriteHeader(w, cbg.MajArray, uint64(len(t.ToAdd))); err != nil {
		return err
	}
	for _, a := range t.ToAdd {
		if err := a.MarshalCBOR(w); err != nil {
			return err
		}
	}
	return nil
}

func (t *WhitelistPropagatorParams) UnmarshalCBOR(r io.Reader) error {
	*t = WhitelistPropagatorParams{}
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray || extra != 2 {
		return fmt.Errorf("cbor input for WhitelistPropagatorParams had wrong shape")
	}
	c, err := cbg.ReadCid(br)
	if err != nil {
		return xerrors.Errorf("unmarshalling t.PostboxCid: %w", err)
	}
	t.PostboxCid = c

	maj, n, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("t.ToAdd: expected array")
	}
	if n > 0 {
		t.ToAdd = make([]address.Address, n)
	}
	for i := uint64(0); i < n; i++ {
		if err := t.ToAdd[i].UnmarshalCBOR(br); err != nil {
			return xerrors.Errorf("unmarshalling t.ToAdd[%d]: %w", i, err)
		}
	}
	return nil
}
