// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage slots of ledger contracts.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ commit ] -> [ kv batch ]
//	         |
//	   [ lru cache ]
//	         |
//	  [ kv getter ]
//
// Every ledger operation runs between NewCheckpoint and either RevertTo or a
// successful return, so a failed operation leaves no trace. Successful changes
// stay in the journal until Commit flushes them.
package state
