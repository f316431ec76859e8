// Package control provides drivers that turn snapshots into actions.
//
// Controllers implement [sim.Controller]:
//
//   - [None]: zero action (coast)
//   - [Constant]: fixed action
//   - [Manual]: action set by an input adapter such as a keyboard
//   - [Pursuit]: PID on the heading error to the nearest marker
//   - [Random]: seeded uniform actions within the actuation limits
//
// # Usage
//
//	ctrl := control.NewPursuit(control.DefaultPursuitGains())
//	res, err := simulator.Run(ctx, ctrl, cfg)
//
// Controllers exposing GetParams/SetParam support tuning by grid search.
package control
