package gateway

import (
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"
)

// PostBoxItem parks a cross-message mid-hop, pending owner-authorized
// propagation.
type PostBoxItem struct {
	Msg    StorableMsg
	Owners []address.Address // empty means no owner restriction has been set
}

func (p *PostBoxItem) hasOwner(addr address.Address) bool {
	for _, o := range p.Owners {
		if o == addr {
			return true
		}
	}
	return false
}

// parkInPostbox stores msg under its content-hash key with the given
// initial owner set, returning the key so further propagators can be
// authorized against it.
func (st *GatewayState) parkInPostbox(rt runtime.Runtime, msg *StorableMsg, owners []address.Address) cid.Cid {
	key, err := storableMsgCid(msg)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute postbox key")

	postbox, err := adt.AsMap(adt.AsStore(rt), st.Postbox, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load postbox")

	item := &PostBoxItem{Msg: *msg, Owners: owners}
	err = postbox.Put(abi.CidKey(key), item)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to store postbox item")
	st.Postbox, err = postbox.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush postbox")
	return key
}

func (st *GatewayState) getPostboxItem(s adt.Store, key cid.Cid) (*PostBoxItem, bool, error) {
	postbox, err := adt.AsMap(s, st.Postbox, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load postbox: %w", err)
	}
	var out PostBoxItem
	found, err := postbox.Get(abi.CidKey(key), &out)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get postbox item %s: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}
	return &out, true, nil
}

func (st *GatewayState) flushPostboxItem(rt runtime.Runtime, key cid.Cid, item *PostBoxItem) {
	postbox, err := adt.AsMap(adt.AsStore(rt), st.Postbox, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load postbox")
	err = postbox.Put(abi.CidKey(key), item)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to put postbox item")
	st.Postbox, err = postbox.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush postbox")
}

// removePostboxItem deletes the entry. Removal happens exactly once, from
// Propagate, and the key never reappears.
func (st *GatewayState) removePostboxItem(rt runtime.Runtime, key cid.Cid) {
	postbox, err := adt.AsMap(adt.AsStore(rt), st.Postbox, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load postbox")
	err = postbox.Delete(abi.CidKey(key))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to delete postbox item")
	st.Postbox, err = postbox.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush postbox")
}
