// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages storage of builtin contracts.
// It follows the flow as below:
//
//	           o
//	           |
//	  [ revertable state ]
//	           |
//	    [ stacked map ] -> [ journal ] -> [ commit ]
//	           |
//	   [ committed storage ]
//
// Every mutation lands on the top level of the stacked map, so a checkpoint taken
// before a call can always be reverted to, leaving storage byte-for-byte identical.
package state
