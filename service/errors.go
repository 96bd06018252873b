package service

import (
	stderrors "errors"
	"net/http"

	"github.com/go-openapi/errors"
)

// Domain errors carry the HTTP status they surface as. Anything else reaching
// the API layer is reported as a 500 with its raw message.
var (
	ErrTaskNotFound      = errors.New(http.StatusNotFound, "Task not found")
	ErrProofNotFound     = errors.New(http.StatusNotFound, "Proof not found")
	ErrProjectNotFound   = errors.New(http.StatusNotFound, "Project not found")
	ErrMailNotFound      = errors.New(http.StatusNotFound, "Mail not found")
	ErrRecipientNotFound = errors.New(http.StatusNotFound, "Recipient not found")
	ErrWorkspaceNotFound = errors.New(http.StatusNotFound, "workspace not found")
	ErrProfileNotFound   = errors.New(http.StatusNotFound, "Profile not found")
	ErrJobNotFound       = errors.New(http.StatusNotFound, "Job not found")
	ErrAgencyNotFound    = errors.New(http.StatusNotFound, "Agency not found")

	ErrInvalidInviteCode = errors.New(http.StatusBadRequest, "Invalid code")
	ErrInviteCodeUsed    = errors.New(http.StatusBadRequest, "Code already used")

	ErrDescriptionRequired = errors.New(http.StatusBadRequest, "projectDescription is required")
	ErrWorkspaceRequired   = errors.New(http.StatusBadRequest, "workspaceId is required to check plan")
	ErrProPlanRequired     = errors.New(http.StatusForbidden, "AI automation is available for Pro plan only")

	ErrPresenceUnavailable = errors.New(http.StatusServiceUnavailable, "presence is not configured")
)

// userNotFound is the mail recipient lookup failure.
func userNotFound(username string) error {
	return errors.New(http.StatusNotFound, "User @%s not found.", username)
}

// Invalid builds a 400 validation error.
func Invalid(message string) error {
	return errors.New(http.StatusBadRequest, "%s", message)
}

// StatusCode returns the HTTP status carried by err, or 500.
func StatusCode(err error) int {
	var apiErr errors.Error
	if stderrors.As(err, &apiErr) {
		return int(apiErr.Code())
	}
	return http.StatusInternalServerError
}
