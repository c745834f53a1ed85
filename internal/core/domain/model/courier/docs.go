// Package courier contains the Courier aggregate: a delivery worker with a
// shift state (offline, available, on_delivery), a cached wallet balance and
// delivery and rating counters.
//
// Shift changes (GoOnline, GoOffline) record courier.online and
// courier.offline events. A wallet balance dropping below zero records
// courier.wallet_negative; a negative balance is money the courier owes the
// company.
package courier
