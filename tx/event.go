// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/stakepool/thor"
)

// Event is a notification emitted by a builtin contract.
type Event interface {
	EventName() string
}

// Record an emitted event along with the emitting contract and the tick it was emitted at.
type Record struct {
	Address thor.Address
	Tick    uint64
	Event   Event
}

// Log an append-only event log that supports truncation back to a mark,
// so events of a reverted call vanish together with its state changes.
type Log struct {
	records []*Record
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Emit appends an event.
func (l *Log) Emit(addr thor.Address, tick uint64, ev Event) {
	l.records = append(l.records, &Record{Address: addr, Tick: tick, Event: ev})
}

// Len returns the number of records, usable as a mark for Truncate.
func (l *Log) Len() int {
	return len(l.records)
}

// Truncate drops every record emitted after mark.
func (l *Log) Truncate(mark int) {
	if mark < len(l.records) {
		l.records = l.records[:mark]
	}
}

// Since returns a copy of the records emitted after mark.
func (l *Log) Since(mark int) []*Record {
	if mark >= len(l.records) {
		return nil
	}
	return append([]*Record(nil), l.records[mark:]...)
}

// Records returns a copy of all records.
func (l *Log) Records() []*Record {
	return l.Since(0)
}

// Filter returns records whose event has the given name.
func (l *Log) Filter(name string) []*Record {
	var out []*Record
	for _, r := range l.records {
		if r.Event.EventName() == name {
			out = append(out, r)
		}
	}
	return out
}
