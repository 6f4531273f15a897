/*
Package ports defines the capability ports (interfaces) the spire agent consumes.

These interfaces decouple the session runtime and the state machine from the desktop,
the text recognizer, the reasoning service and the memory reader, so that every state can be
exercised against deterministic fakes.

# Key Interfaces

  - FrameSource: Captures frames from the selected display and reports its geometry.
  - TextRecognizer: Finds text and bounding boxes in an image.
  - Reasoner: Answers a prompt, optionally with a conversation history.
  - InputActuator: Injects clicks, drags and scrolls at global pixel coordinates.
  - MemorySnapshot: Reads a flat key/value snapshot of the game's memory.
  - ChatSink: Receives the free-form chat payload of reasoner responses.
  - ScratchStore: Backs the session's shared key/value scratch space.
*/
package ports
