/*
Package domain contains the core domain models of the spire agent.

It defines the vocabulary shared by the session runtime, the state machine and the adapters:
normalized screen geometry, perception results, combat and map data, conversation histories
and the lifecycle events emitted while the agent runs. This package is kept pure and free of
I/O, following Hexagonal Architecture principles.

# Key Entities

  - Region: A normalized rectangle on the logical screen, independent of resolution.
  - Display: The selected monitor, with its offset and size in global pixels.
  - RecognizedItem: One text label found inside a region, with region-relative geometry.
  - SelectedNode: The map node most recently chosen, kept so it can be cleared later.
  - Snapshot: A flat key/value view of the game's memory.
  - Message: One turn of a conversation history, keyed by Topic.
  - StateKind: The closed set of screen states the agent can be in.
*/
package domain
