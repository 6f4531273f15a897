/*
Package runtime holds the Session: the single owner of the capability ports, the knowledge
store, the conversation histories, the scratch space and the active State.

States reach every shared capability through the *Session handed to Handle. Perception calls
capture a fresh frame each time and fail soft; reasoner calls are bounded by a timeout and only
record history when an answer arrived; every click and drag is routed through the coordinate
pipeline in pkg/geometry. Step wraps Handle in a fault boundary so a transient failure never
stops the loop.
*/
package runtime
