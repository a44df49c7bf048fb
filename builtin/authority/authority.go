// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var (
	headKey  = thor.Blake2b([]byte("head"))
	tailKey  = thor.Blake2b([]byte("tail"))
	ownerKey = thor.Blake2b([]byte("owner"))

	ErrNotOwner = reverts.New("authority: caller is not the owner")

	logger = log.WithContext("pkg", "authority")
)

// Authority is the admin registry. The owner grants and revokes admins; listed active admins
// (and the owner itself) are authorized to run admin-only operations.
type Authority struct {
	addr  thor.Address
	state *state.State
	owner *solidity.Address
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Authority {
	return &Authority{
		addr:  addr,
		state: state,
		owner: solidity.NewAddress(solidity.NewContext(addr, state), ownerKey),
	}
}

// Owner returns the current owner, zero if none was set.
func (a *Authority) Owner() (thor.Address, error) {
	return a.owner.Get()
}

// SetOwner sets the owner. It is meant for pool setup, before any admin is granted.
func (a *Authority) SetOwner(owner thor.Address) {
	a.owner.Set(owner)
}

func (a *Authority) requireOwner(caller thor.Address) error {
	owner, err := a.owner.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() || owner != caller {
		return ErrNotOwner
	}
	return nil
}

func (a *Authority) getEntry(admin thor.Address) (*entry, error) {
	var e entry
	if err := a.state.GetStructuredStorage(a.addr, thor.BytesToBytes32(admin[:]), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (a *Authority) setEntry(admin thor.Address, e *entry) error {
	return a.state.SetStructuredStorage(a.addr, thor.BytesToBytes32(admin[:]), e)
}

func (a *Authority) getAddressPtr(key thor.Bytes32) (*thor.Address, error) {
	var ptr addressPtr
	if err := a.state.GetStructuredStorage(a.addr, key, &ptr); err != nil {
		return nil, err
	}
	return ptr.Address, nil
}

func (a *Authority) setAddressPtr(key thor.Bytes32, addr *thor.Address) error {
	return a.state.SetStructuredStorage(a.addr, key, &addressPtr{addr})
}

func (a *Authority) listed(admin thor.Address, e *entry) (bool, error) {
	if e.IsLinked() {
		return true, nil
	}
	// if it's the only node, IsLinked will be false.
	// check whether it's the head.
	head, err := a.getAddressPtr(headKey)
	if err != nil {
		return false, err
	}
	return head != nil && *head == admin, nil
}

// Get returns whether the admin is listed, who granted it and whether it is active.
func (a *Authority) Get(admin thor.Address) (listed bool, granter thor.Address, active bool, err error) {
	var e *entry
	if e, err = a.getEntry(admin); err != nil {
		return
	}
	if listed, err = a.listed(admin, e); err != nil {
		return
	}
	return listed, e.Granter, e.Active, nil
}

// Authorized reports whether caller may run admin-only operations.
func (a *Authority) Authorized(caller thor.Address) (bool, error) {
	owner, err := a.owner.Get()
	if err != nil {
		return false, err
	}
	if !owner.IsZero() && owner == caller {
		return true, nil
	}
	listed, _, active, err := a.Get(caller)
	if err != nil {
		return false, err
	}
	return listed && active, nil
}

// Add appends a new admin. It returns false if the admin is already listed.
func (a *Authority) Add(caller, admin thor.Address) (bool, error) {
	if err := a.requireOwner(caller); err != nil {
		return false, err
	}
	e, err := a.getEntry(admin)
	if err != nil {
		return false, err
	}
	listed, err := a.listed(admin, e)
	if err != nil {
		return false, err
	}
	if listed {
		return false, nil
	}

	e.Granter = caller
	e.Active = true // defaults to active

	tailPtr, err := a.getAddressPtr(tailKey)
	if err != nil {
		return false, err
	}
	e.Prev = tailPtr
	e.Next = nil

	if err := a.setAddressPtr(tailKey, &admin); err != nil {
		return false, err
	}
	if tailPtr == nil {
		if err := a.setAddressPtr(headKey, &admin); err != nil {
			return false, err
		}
	} else {
		tailEntry, err := a.getEntry(*tailPtr)
		if err != nil {
			return false, err
		}
		tailEntry.Next = &admin
		if err := a.setEntry(*tailPtr, tailEntry); err != nil {
			return false, err
		}
	}

	if err := a.setEntry(admin, e); err != nil {
		return false, err
	}
	logger.Debug("admin added", "admin", admin, "granter", caller)
	return true, nil
}

// Revoke unlists the admin. The entry is dropped from storage.
func (a *Authority) Revoke(caller, admin thor.Address) (bool, error) {
	if err := a.requireOwner(caller); err != nil {
		return false, err
	}
	e, err := a.getEntry(admin)
	if err != nil {
		return false, err
	}
	listed, err := a.listed(admin, e)
	if err != nil {
		return false, err
	}
	if !listed {
		return false, nil
	}

	if e.Prev == nil {
		if err := a.setAddressPtr(headKey, e.Next); err != nil {
			return false, err
		}
	} else {
		prevEntry, err := a.getEntry(*e.Prev)
		if err != nil {
			return false, err
		}
		prevEntry.Next = e.Next
		if err := a.setEntry(*e.Prev, prevEntry); err != nil {
			return false, err
		}
	}

	if e.Next == nil {
		if err := a.setAddressPtr(tailKey, e.Prev); err != nil {
			return false, err
		}
	} else {
		nextEntry, err := a.getEntry(*e.Next)
		if err != nil {
			return false, err
		}
		nextEntry.Prev = e.Prev
		if err := a.setEntry(*e.Next, nextEntry); err != nil {
			return false, err
		}
	}

	if err := a.setEntry(admin, &entry{}); err != nil {
		return false, err
	}
	logger.Debug("admin revoked", "admin", admin, "by", caller)
	return true, nil
}

// Update pauses or resumes a listed admin without unlisting it.
func (a *Authority) Update(caller, admin thor.Address, active bool) (bool, error) {
	if err := a.requireOwner(caller); err != nil {
		return false, err
	}
	e, err := a.getEntry(admin)
	if err != nil {
		return false, err
	}
	listed, err := a.listed(admin, e)
	if err != nil {
		return false, err
	}
	if !listed {
		return false, nil
	}
	e.Active = active
	if err := a.setEntry(admin, e); err != nil {
		return false, err
	}
	return true, nil
}

// All returns listed admins in the order they were added.
func (a *Authority) All() ([]Admin, error) {
	ptr, err := a.getAddressPtr(headKey)
	if err != nil {
		return nil, err
	}
	var admins []Admin
	for ptr != nil {
		e, err := a.getEntry(*ptr)
		if err != nil {
			return nil, err
		}
		admins = append(admins, Admin{Address: *ptr, Granter: e.Granter, Active: e.Active})
		ptr = e.Next
	}
	return admins, nil
}
