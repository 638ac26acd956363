package commands

import (
	"errors"
	"time"

	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

var ErrReleaseStaleDriversCommandIsNotConstructed = errors.New(
	"ReleaseStaleDriversCommand must be created via NewReleaseStaleDriversCommand constructor",
)

// ReleaseStaleDriversCommand triggers the availability sweep: drivers still
// flagged available whose last ping is older than the cutoff are taken out of
// the broadcast audience. Orders are never touched by the sweep.
type ReleaseStaleDriversCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewReleaseStaleDriversCommand creates a sweep command for the given cutoff.
func NewReleaseStaleDriversCommand(cutoff time.Time) (ReleaseStaleDriversCommand, error) {
	sweepCommand := ReleaseStaleDriversCommand{
		guard: guard.NewConstructorGuard(),
	}

	if cutoff.IsZero() {
		return ReleaseStaleDriversCommand{}, errs.NewValueIsRequiredError("cutoff")
	}

	sweepCommand.cutoff = cutoff
	return sweepCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseStaleDriversCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStaleDriversCommandIsNotConstructed)
}

// Cutoff returns the staleness cutoff. Drivers whose last ping predates it are swept.
func (c ReleaseStaleDriversCommand) Cutoff() time.Time {
	return c.cutoff
}
