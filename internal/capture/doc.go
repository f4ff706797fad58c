// Package capture implements the stability-gated auto-capture engine.
//
// The engine consumes a live frame stream, asks the landmark detector whether
// a hand is present, classifies the hand as stable when inter-frame motion
// falls below a threshold, and takes timed snapshots until a quota is met.
//
// Rules the engine enforces:
//   - The first observation after the hand (re)enters the frame never
//     triggers a capture; stability must be established against a previous
//     frame.
//   - Captures are spaced by at least a configured minimum interval.
//   - The emitted sequence is exactly quota images long, in capture order.
//   - Once a session starts, the camera handle is closed exactly once on
//     every exit path, and at most one session may own it at a time. A
//     session rejected before start leaves the handle with the caller.
//
// Concurrency: Engine.Run executes the session loop on the calling
// goroutine and is NOT safe for concurrent use beyond cancelling via the
// context; Engine itself only guards the single-active-session flag.
package capture
