// Package kernel provides core domain primitives and utilities for the
// fulfillment engine. It implements fundamental building blocks following
// Domain-Driven Design principles that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - GeoPoint: A validated latitude/longitude pair with great-circle distance
//   - OrderCode: The short human-readable order identifier (e.g. "MOV-7KQ2")
//   - Money: A monetary amount in the smallest currency unit
//   - Role/Actor: The acting principal behind each operation
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel
