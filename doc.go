/*
Package spire is a screen-driven agent that plays a card-battler by looking at the screen,
asking a language model what to do, and acting through synthetic mouse input.

The agent is a state machine. Each tick the active state perceives a few normalized screen
regions through OCR, pixel sampling and a memory snapshot, asks the reasoner a templated
question, acts on the answer and optionally hands over to the next state. Failures never stop
the loop: a step that errors or panics is logged and retried on the next tick.

# Architecture

Capabilities are ports (pkg/ports) with production adapters under pkg/adapters: the desktop
(capture and input), Tesseract OCR, an OpenAI-compatible reasoner, a subprocess memory
reader, in-memory or Redis scratch storage and a Redis chat channel. The Agent wires them
into a session and exposes a read-only view for the HTTP and MCP surfaces.

# Usage

	agent, err := spire.New(
		spire.WithPorts(spire.Ports{
			Frames:     desk,
			Actuator:   desk,
			Recognizer: ocr,
			Reasoner:   llm,
			Memory:     reader,
		}),
		spire.WithKnowledge(knowledge.Load("prompt.json", "game_knowledge.json")),
		spire.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := runner.NewRunner().Run(ctx, agent); err != nil {
		log.Fatal(err)
	}
*/
package spire
