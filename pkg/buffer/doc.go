// Package buffer provides a thread-safe ring buffer for streaming data
// that always favors the most recent writes over the oldest.
//
// RingBuffer implements io.Reader and io.Writer over a fixed-size circular
// buffer that overwrites the oldest data once full, making it suitable for
// sliding windows of recent activity: the event bus's replay history and
// the CLI's capped log tail both use it instead of unbounded growth.
//
// Example usage:
//
//	rb := buffer.RingN[string](64)
//	rb.Add("line one")
//	lines := rb.Bytes()
package buffer
