// Package services holds domain logic spanning several aggregates:
// OrderDispatcher ranks couriers for an open order and EarningsCalculator
// turns delivered-order counts into period earnings.
package services
