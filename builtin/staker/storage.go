// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/accrual"
	"github.com/vechain/stakepool/thor"
)

var (
	slotPool         = thor.BytesToBytes32([]byte("pool"))
	slotParticipants = thor.BytesToBytes32([]byte("participants"))
)

type storage struct {
	pool         *solidity.Raw[*accrual.Pool]
	participants *solidity.Mapping[thor.Address, *accrual.Participant]
}

func newStorage(sctx *solidity.Context) *storage {
	return &storage{
		pool:         solidity.NewRaw[*accrual.Pool](sctx, slotPool),
		participants: solidity.NewMapping[thor.Address, *accrual.Participant](sctx, slotParticipants),
	}
}

func (s *storage) getPool() (*accrual.Pool, error) {
	p, err := s.pool.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	p.Normalize()
	return p, nil
}

func (s *storage) setPool(p *accrual.Pool) error {
	if err := s.pool.Upsert(p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return nil
}

func (s *storage) getParticipant(addr thor.Address) (*accrual.Participant, error) {
	p, err := s.participants.Get(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get participant %s", addr)
	}
	p.Normalize()
	return p, nil
}

func (s *storage) setParticipant(addr thor.Address, p *accrual.Participant) error {
	if err := s.participants.Set(addr, p); err != nil {
		return errors.Wrapf(err, "failed to set participant %s", addr)
	}
	return nil
}
