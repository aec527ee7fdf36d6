package task

import "errors"

// Errors returned when building or driving a chain.
var (
	// ErrCyclicPipe is returned by Pipe for a self-pipe or a pipe that
	// would close a cycle.
	ErrCyclicPipe = errors.New("task: cyclic pipe")

	// ErrDisposed is returned when a disposed task is piped or performed.
	ErrDisposed = errors.New("task: task is disposed")

	// ErrNoCount is returned by Perform for a head task with progress
	// functions but no Count.
	ErrNoCount = errors.New("task: head task has no count")
)
