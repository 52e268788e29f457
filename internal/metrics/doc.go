// Package metrics implements [dynamo.Metric] observers for ladder
// trajectories. Every metric accepts packed density matrices and packed
// state vectors, told apart by length.
package metrics
