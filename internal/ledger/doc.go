// Package ledger keeps an append-only sqlite audit log of every blob stored
// by walrusup: which run uploaded which file, the resulting blob id, and its
// expiry epoch. The ledger is informational; runs never resume from it.
package ledger
