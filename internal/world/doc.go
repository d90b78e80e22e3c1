// Package world owns the entity registry: the static obstacles placed in the
// arena.
//
// Obstacles come in two variants, wall segments and point obstacles, behind
// the Obstacle capability interface. Callers that need variant-specific data
// switch on Kind rather than relying on dynamic dispatch. The registry is
// append-only: obstacles live for the whole session and are never removed.
//
// Geometry is validated at registration. A zero-length wall has no direction
// vector and is rejected with ErrDegenerateWall.
package world
