// Package dynamo provides the shared primitives of the driving simulation.
//
// The package is a leaf: it holds the planar vector helpers built on
// [r2.Vec] and the domain errors used across the core:
//
//   - [HeadingVec]: unit vector for a heading angle
//   - [SignedAngle]: counter-clockwise angle between two vectors
//   - [Clamp]: symmetric and asymmetric bound enforcement
//   - [ErrInvalidInput], [ErrInvalidState], [ErrParameterBounds]
//
// # Example
//
//	rel := r2.Sub(target, pos)
//	angle := dynamo.SignedAngle(dynamo.HeadingVec(heading), rel)
package dynamo
