// Package states holds the screen states of the agent.
//
// Each state is a small value implementing runtime.State. A state reads the screen through the
// session, decides (usually by asking the reasoner) and acts through the session's actuation
// helpers. It may call Session.TransitionTo at most once per Handle. Failures are resolved inside
// Handle: a state that cannot make progress either retries on the next tick or falls back to its
// default exit, which is almost always MapSelection.
package states
