package perception

import (
	"errors"
	"fmt"
	"os"
)

// Reason classifies a camera acquisition failure.
type Reason int

const (
	ReasonOther Reason = iota
	ReasonPermissionDenied
	ReasonNotFound
	ReasonUnsupported
)

func (r Reason) String() string {
	switch r {
	case ReasonPermissionDenied:
		return "permission_denied"
	case ReasonNotFound:
		return "not_found"
	case ReasonUnsupported:
		return "unsupported"
	}
	return "other"
}

const cameraErrorPrefix = "Sorry, I couldn't access the camera. "

var reasonMessages = map[Reason]string{
	ReasonPermissionDenied: "Please allow camera permissions and try again.",
	ReasonNotFound:         "No camera found. Please check if your camera is connected.",
	ReasonUnsupported:      "Your browser doesn't support camera access.",
	ReasonOther:            "Please make sure your camera is connected and you've granted permission.",
}

// CameraError is a classified camera acquisition failure.
type CameraError struct {
	Reason Reason
	Err    error
}

func (e *CameraError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("camera %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("camera %s", e.Reason)
}

func (e *CameraError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing response for the failure.
func (e *CameraError) Message() string {
	msg, ok := reasonMessages[e.Reason]
	if !ok {
		msg = reasonMessages[ReasonOther]
	}
	return cameraErrorPrefix + msg
}

// ClassifyCameraError maps an Open error to a CameraError.
// Errors that already are CameraErrors are returned as is.
func ClassifyCameraError(err error) *CameraError {
	if err == nil {
		return nil
	}
	var ce *CameraError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, os.ErrPermission):
		return &CameraError{Reason: ReasonPermissionDenied, Err: err}
	case errors.Is(err, os.ErrNotExist):
		return &CameraError{Reason: ReasonNotFound, Err: err}
	case errors.Is(err, errors.ErrUnsupported):
		return &CameraError{Reason: ReasonUnsupported, Err: err}
	}
	return &CameraError{Reason: ReasonOther, Err: err}
}
