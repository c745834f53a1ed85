// Package kernel holds the primitives shared by every aggregate: identifiers
// (UUID), geographic coordinates with great-circle distance (GeoPoint) and
// the domain event recorder aggregates use to announce state changes.
package kernel
