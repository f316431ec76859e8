// Package physics provides the vehicle model for simulation.
//
// [VehicleState] is a planar kinematic bicycle model integrated with
// fixed-step explicit Euler:
//
//	dx/dt     = v * cos(theta)
//	dy/dt     = v * sin(theta)
//	dtheta/dt = v * tan(delta) / L
//	dv/dt     = a
//
// where theta is the heading, delta the wheel steer angle, L the
// wheelbase and a the commanded acceleration.
//
// # Validation
//
// [VehicleState.Step] does not validate its inputs. A negative time step
// integrates backwards and steer angles approaching ±π/2 hit the tangent
// singularity. Callers that need guarantees go through the simulator,
// which rejects such inputs before they reach the integrator.
package physics
