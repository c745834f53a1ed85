// Package order models a customer order on its last mile.
//
// The Order aggregate moves through an explicit stage machine:
//
//	Pending / ProductShipped -> Accepted -> PickedUp -> Navigating -> Reached -> Delivered
//
// Each step is one method (Accept or AssignTo, Pickup, StartNavigation,
// MarkReached, Complete) that may only be invoked from the immediately
// preceding stage and, after acceptance, only by the assigned courier.
// Every transition stamps a milestone timestamp and records a domain event.
//
// Milestone timestamps are the persisted truth: DeriveStage rebuilds the
// stage from them, and the tracking helpers (BuildTimelineSteps,
// PrimaryAction, Destination, EstimateETAMinutes, NavigationURL) are pure
// functions of stage, milestones and coordinates.
package order
