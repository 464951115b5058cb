package tasks

import "errors"

// ErrTaskNotFound indicates a status query for an id the registry has never seen.
var ErrTaskNotFound = errors.New("task not found")
