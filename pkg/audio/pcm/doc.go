// Package pcm provides the float-in-atomic primitive the realtime mixer
// engine uses to publish gain and level values across goroutines without
// locking.
//
// AtomicFloat32 stores a float32 inside a sync/atomic uint32 by bit
// reinterpretation (math.Float32bits/Float32frombits). Per-stem volume,
// master volume, and per-block peak levels are all AtomicFloat32 fields
// on their owning struct, written from the command/control path and read
// from the realtime render path with no allocation and no blocking.
package pcm
