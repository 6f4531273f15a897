package domain

import "errors"

// ErrCaptureUnavailable is returned when no frame can be captured.
var ErrCaptureUnavailable = errors.New("capture unavailable")

// ErrOutOfBounds is returned when a coordinate or index falls outside its valid range.
var ErrOutOfBounds = errors.New("out of bounds")

// ErrInvalidGeometry is returned when a region resolves to a non-positive pixel area.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ErrNoData is returned when the memory snapshot could not be produced.
var ErrNoData = errors.New("no data")

// ErrUnknownTopic is returned for a history topic that is not registered.
var ErrUnknownTopic = errors.New("unknown history topic")

// ErrTemplateMissing is returned when a prompt template key is absent.
var ErrTemplateMissing = errors.New("prompt template missing")

// ErrTemplate is returned when a template references a placeholder with no value.
var ErrTemplate = errors.New("template error")

// ErrNoResponse is returned when the reasoner produced no usable text.
var ErrNoResponse = errors.New("no reasoner response")

// ErrNotFound is returned when a label cannot be located on screen.
var ErrNotFound = errors.New("not found")

// ErrPartialEnumeration is returned when a scan hit its scroll budget before the list ended.
var ErrPartialEnumeration = errors.New("partial enumeration")

// ErrScratchMiss is returned when a scratch key has no value.
var ErrScratchMiss = errors.New("scratch key not found")

// ErrAlreadyTransitioned is returned when a state transitions twice in one step.
var ErrAlreadyTransitioned = errors.New("state already transitioned this step")

// ErrNoDisplay is returned when the requested display does not exist.
var ErrNoDisplay = errors.New("display not found")
