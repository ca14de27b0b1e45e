package mcp

import (
	"errors"

	"golang.org/x/exp/jsonrpc2"
)

// JSON-RPC error codes used by the server.
const (
	codeInvalidRequest   = -32600
	codeInvalidParams    = -32602
	codeInternalError    = -32603
	codeResourceNotFound = -32002
)

var (
	// ErrLockingConflicts occurs when the server is configured while it is running.
	ErrLockingConflicts = errors.New(
		"mcp server is already running or there is a configuration process conflict",
	)

	// ErrInvalidPromptRole occurs when an invalid prompt role is provided.
	ErrInvalidPromptRole = errors.New(
		"invalid prompt role, must be one of: user, assistant")

	// ErrResourceNotFound is returned by resource handlers for a URI with nothing behind it.
	ErrResourceNotFound = jsonrpc2.NewError(codeResourceNotFound, "resource not found")

	// ErrSessionNotInitialized is returned for requests sent before initialize.
	ErrSessionNotInitialized = jsonrpc2.NewError(codeInvalidRequest, "session not initialized")
)
