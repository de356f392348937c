package moderation

import "emperror.dev/errors"

var (
	// ErrPermissionDenied is returned by a Platform when the bot lacks the
	// permission for an enforcement action.
	ErrPermissionDenied = errors.Sentinel("permission denied")
	// ErrNotFound is returned by a Platform when the target (message, member,
	// invite, ban) no longer exists.
	ErrNotFound = errors.Sentinel("not found")
	// ErrMalformedDuration rejects a punishment before any state is touched.
	ErrMalformedDuration = errors.Sentinel("malformed duration")
	// ErrInvalidTrustLevel is returned for manual overrides to an unknown level.
	ErrInvalidTrustLevel = errors.Sentinel("invalid trust level")
)

// ignoreNotFound treats a vanished target as a successful no-op.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
