// Package occupancy owns the robot's belief about the arena.
//
// Every cell holds exactly one of four states: Unknown, Free, Frontier or
// Occupied. The states are stored as four boolean layers so that renderers
// can read any one of them directly; the mutating operations keep the layers
// mutually exclusive.
//
// Two writers exist. The robot marks the swept sensor area explored before it
// moves (MarkExplored) and the sensor marks detected obstacle footprints
// (MarkOccupied). Both run on the tick goroutine, so the grid carries no lock.
//
// Rectangles are half-open, [x0,x1) x [y0,y1), and are clamped to the grid;
// out-of-range input is never an error.
package occupancy
