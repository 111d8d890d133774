package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrThreadIDRequired is returned when an invocation does not name a thread.
var ErrThreadIDRequired = errors.New("thread_id is required")

// ErrUnknownTool is returned when the model requests a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrToolLoopExceeded is returned when a graph re-enters its start step more
// times than the configured round cap allows.
var ErrToolLoopExceeded = errors.New("tool-loop exceeded")

// ErrStepNotFound is returned when an edge points to a step the graph does not define.
var ErrStepNotFound = errors.New("step not found")

// ErrRouteNotFound is returned when a router yields a label missing from its route table.
var ErrRouteNotFound = errors.New("route not found")

// ErrPromptNotFound is returned when a named prompt cannot be resolved.
var ErrPromptNotFound = errors.New("prompt not found")

// ErrModelFailed wraps every error returned by the chat model collaborator.
var ErrModelFailed = errors.New("model call failed")
