// Package ledger contains the money records of the delivery platform:
// payments collected for orders, the append-only wallet transaction log,
// settlements that return collected cash to the company, and deductions.
//
// A courier's wallet balance is never stored here. It is the fold of the
// wallet transaction log (see Balance); the courier aggregate only caches it.
package ledger
