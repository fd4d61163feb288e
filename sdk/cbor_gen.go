// Code generated by github.com/whyrusleeping/cbor-gen. Hand-adapted: sdk has
// no gen/gen.go, so update these by hand if the shape of SubnetID/IPCAddress
// changes.

package sdk

import (
	"fmt"
	"io"

	"github.com/filecoin-project/go-address"
	cbg "github.com/whyrusleeping/cbor-gen"
	xerrors "golang.org/x/xerrors"
)

var _ = xerrors.Errorf

func (t *IPCAddress) MarshalCBOR(w io.Writer) error {
	if t == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if _, err := w.Write([]byte{130}); err != nil { // array, 2 fields
		return err
	}

	if err := cbg.WriteMajorTypeHeader(w, cbg.MajTextString, uint64(len(t.Subnet))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, string(t.Subnet)); err != nil {
		return err
	}

	if err := t.Raw.MarshalCBOR(w); err != nil {
		return err
	}

	return nil
}

func (t *IPCAddress) UnmarshalCBOR(r io.Reader) error {
	*t = IPCAddress{}

	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("cbor input should be of type array")
	}
	if extra != 2 {
		return fmt.Errorf("cbor input had wrong number of fields for IPCAddress")
	}

	s, err := cbg.ReadString(br)
	if err != nil {
		return err
	}
	t.Subnet = SubnetID(s)

	if err := t.Raw.UnmarshalCBOR(br); err != nil {
		return xerrors.Errorf("unmarshalling t.Raw: %w", err)
	}

	return nil
}

var _ = address.Undef
