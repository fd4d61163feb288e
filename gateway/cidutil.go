package gateway

import (
	"bytes"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-cid"
)

// bundleCid hashes a CrossMsgsBundle's cbor-gen encoding with
// abi.CidBuilder, keying the bundle by content in the registry.
func bundleCid(b *CrossMsgsBundle) (cid.Cid, error) {
	var buf bytes.Buffer
	if err := b.MarshalCBOR(&buf); err != nil {
		return cid.Undef, err
	}
	return abi.CidBuilder.Sum(buf.Bytes())
}

// storableMsgCid hashes a StorableMsg's cbor-gen encoding, used as the
// postbox key: entries are keyed by the content hash of the parked message.
func storableMsgCid(m *StorableMsg) (cid.Cid, error) {
	var buf bytes.Buffer
	if err := m.MarshalCBOR(&buf); err != nil {
		return cid.Undef, err
	}
	return abi.CidBuilder.Sum(buf.Bytes())
}
