// Package sim ties the arena, the robot, its radar and the motion
// orchestrator into a tick-driven session.
//
// Each Step runs the orchestrator for the current intents and then one radar
// pass, in that order. Observers see a Frame after every step. Input sources
// (a Script, a keyboard) set intents between steps; a Runner paces steps
// against a timeutil.Clock.
package sim
