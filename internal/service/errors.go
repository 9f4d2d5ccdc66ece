package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrSessionNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "session")
}

type ErrFileCorrupted struct {
	error
}

func NewErrFileCorrupted(message string) *ErrFileCorrupted {
	return &ErrFileCorrupted{fmt.Errorf("bad request: %s", message)}
}

func NewErrRVToolsFileCorrupted(message string) *ErrFileCorrupted {
	return NewErrFileCorrupted(fmt.Sprintf("The provided RVTools file is corrupted: %s", message))
}

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("invalid request: %s", message)}
}

// ErrPhaseNotCompleted signals that a report was requested before the phase
// producing its data ran.
type ErrPhaseNotCompleted struct {
	error
}

func NewErrPhaseNotCompleted(sessionID uuid.UUID, phase string) *ErrPhaseNotCompleted {
	return &ErrPhaseNotCompleted{fmt.Errorf("session %s has no %s results yet", sessionID, phase)}
}
