// Package kernel contains shared value objects used across the domain model:
// identifiers, geographic coordinates, delivery addresses, and monetary amounts.
// All value objects are immutable and must be created through their constructors;
// zero values fail validation.
package kernel
