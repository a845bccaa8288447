// SPDX-License-Identifier: MIT

package negsample

import "errors"

// Sentinel errors for sampling. Records referencing constants outside the
// ranking's universe surface kb.ErrConstantOutOfRange.
var (
	// ErrInvalidPolicy indicates a policy parameter outside its domain.
	ErrInvalidPolicy = errors.New("negsample: invalid policy parameters")

	// ErrUnknownPolicy indicates an unrecognised policy name.
	ErrUnknownPolicy = errors.New("negsample: unknown policy")

	// ErrNilRanking is returned when the sampler is given no ranking.
	ErrNilRanking = errors.New("negsample: ranking is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("negsample: invalid option supplied")
)
