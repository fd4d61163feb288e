package sdk

import (
	"github.com/filecoin-project/go-address"
	"golang.org/x/xerrors"
)

// IPCAddress pairs a SubnetID with a raw address on that subnet's network.
// Equality is structural: two IPCAddresses are equal iff both fields are
// equal, since SubnetID is itself a plain string path and address.Address
// a value type.
type IPCAddress struct {
	Subnet SubnetID
	Raw    address.Address
}

// NewIPCAddress builds an IPCAddress, rejecting an undefined raw address
// the same way a malformed StorableMsg.From/To would be rejected at
// ingress.
func NewIPCAddress(subnet SubnetID, raw address.Address) (IPCAddress, error) {
	if raw == address.Undef {
		return IPCAddress{}, xerrors.Errorf("raw address cannot be undefined")
	}
	return IPCAddress{Subnet: subnet, Raw: raw}, nil
}

func (a IPCAddress) Equals(b IPCAddress) bool {
	return a.Subnet == b.Subnet && a.Raw == b.Raw
}

func (a IPCAddress) String() string {
	return a.Subnet.String() + ":" + a.Raw.String()
}
