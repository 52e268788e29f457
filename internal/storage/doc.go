// Package storage persists simulation runs and transition lookup tables.
//
// Each run lives in its own directory named by a random UUID:
//
//	<base>/<id>/metadata.json  run settings and final metrics
//	<base>/<id>/states.csv     time, packed state x0.., controls u0..
//
// Lookup snapshots are msgpack files under <base>/lookups/ so the spline
// tables of a [transition.Rydberg] survive between invocations.
package storage
