package app

import "errors"

var (
	// ErrValidation means required input was missing. Nothing was loaded or written.
	ErrValidation = errors.New("missing required fields")
	// ErrTaskNotFound means the task is not in the open task list.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAlreadyAccepted means the influencer already holds an acceptance for the task.
	ErrAlreadyAccepted = errors.New("already accepted")
)
