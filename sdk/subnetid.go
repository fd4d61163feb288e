// Package sdk provides the identifier and address model shared by the
// Gateway and Subnet actors: subnet IDs (a path through the subnet
// hierarchy) and IPC addresses (a subnet-qualified raw address).
package sdk

import (
	"strings"

	"github.com/filecoin-project/go-address"
	"golang.org/x/xerrors"
)

// RootSeparator delimits path elements in a SubnetID's string form.
const RootSeparator = "/"

// RootSymbol is the first element of every SubnetID, identifying the root
// network.
const RootSymbol = "root"

// SubnetID is the ordered path of actor addresses from the root network
// down to a subnet. The root network itself is represented by the single
// element path {RootSymbol}.
type SubnetID string

// NewRootID builds the SubnetID of the root network. The chain ID the root
// transacts under is accepted for forward compatibility; it does not change
// the path form.
func NewRootID(chainID uint64) SubnetID {
	return SubnetID(RootSeparator + RootSymbol)
}

// NewSubnetID builds the SubnetID of a child of parent whose subnet actor
// lives at actorAddr on parent's network.
func NewSubnetID(parent SubnetID, actorAddr address.Address) SubnetID {
	return SubnetID(string(parent) + RootSeparator + actorAddr.String())
}

// NewSubnetIDFromString parses the canonical "/root/f01/f02" path form.
func NewSubnetIDFromString(s string) (SubnetID, error) {
	if s == "" {
		return "", xerrors.Errorf("empty subnet id")
	}
	if !strings.HasPrefix(s, RootSeparator) {
		return "", xerrors.Errorf("subnet id %q must start with %q", s, RootSeparator)
	}
	parts := strings.Split(strings.TrimPrefix(s, RootSeparator), RootSeparator)
	if len(parts) == 0 || parts[0] != RootSymbol {
		return "", xerrors.Errorf("subnet id %q must start at %q", s, RootSymbol)
	}
	for _, p := range parts[1:] {
		if _, err := address.NewFromString(p); err != nil {
			return "", xerrors.Errorf("invalid subnet path element %q: %w", p, err)
		}
	}
	return SubnetID(s), nil
}

func (id SubnetID) String() string {
	return string(id)
}

func (id SubnetID) path() []string {
	return strings.Split(strings.TrimPrefix(string(id), RootSeparator), RootSeparator)
}

// IsRoot reports whether id is the root network.
func (id SubnetID) IsRoot() bool {
	return string(id) == RootSeparator+RootSymbol
}

// Parent returns the SubnetID one level up the hierarchy. Calling Parent on
// the root is an error: the root has no parent.
func (id SubnetID) Parent() (SubnetID, error) {
	if id.IsRoot() {
		return "", xerrors.Errorf("the root network has no parent")
	}
	p := id.path()
	return SubnetID(RootSeparator + strings.Join(p[:len(p)-1], RootSeparator)), nil
}

// Actor returns the address of the subnet actor that instantiated id on its
// parent network — the last path element.
func (id SubnetID) Actor() (address.Address, error) {
	if id.IsRoot() {
		return address.Undef, xerrors.Errorf("the root network has no subnet actor")
	}
	p := id.path()
	return address.NewFromString(p[len(p)-1])
}

// Down returns the immediate child of id that lies on the path to dst, i.e.
// the next hop a top-down message must take. dst must be a strict
// descendant of id.
func (id SubnetID) Down(dst SubnetID) (SubnetID, error) {
	if !id.commonParentIsSelf(dst) {
		return "", xerrors.Errorf("%s is not an ancestor of %s", id, dst)
	}
	idLen := len(id.path())
	dstPath := dst.path()
	if len(dstPath) <= idLen {
		return "", xerrors.Errorf("%s is not a strict descendant of %s", dst, id)
	}
	return SubnetID(RootSeparator + strings.Join(dstPath[:idLen+1], RootSeparator)), nil
}

// commonParentIsSelf reports whether id is an ancestor of (or equal to) dst.
func (id SubnetID) commonParentIsSelf(dst SubnetID) bool {
	idPath, dstPath := id.path(), dst.path()
	if len(idPath) > len(dstPath) {
		return false
	}
	for i, p := range idPath {
		if dstPath[i] != p {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether id is a strict descendant of ancestor.
func (id SubnetID) IsDescendantOf(ancestor SubnetID) bool {
	return ancestor.commonParentIsSelf(id) && id != ancestor
}

// CommonParent returns the deepest SubnetID that is an ancestor of (or
// equal to) both a and b.
func CommonParent(a, b SubnetID) SubnetID {
	ap, bp := a.path(), b.path()
	n := len(ap)
	if len(bp) < n {
		n = len(bp)
	}
	i := 0
	for i < n && ap[i] == bp[i] {
		i++
	}
	return SubnetID(RootSeparator + strings.Join(ap[:i], RootSeparator))
}
