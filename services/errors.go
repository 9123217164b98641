package services

import "errors"

// Sentinel errors surfaced by the services. Controllers map these to HTTP
// statuses; anything else is treated as a backend failure.
var (
	// ErrNotFound: no cove for a join code, or a missing target/capsule/profile.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyMember: the caller is already in the cove's member set.
	ErrAlreadyMember = errors.New("already a member of this cove")

	// ErrAlreadyOwner: the cove creator tried to join their own cove.
	ErrAlreadyOwner = errors.New("cannot join a cove you own")

	// ErrUnauthorized: a non-owner attempted an owner-only operation, or a
	// non-author attempted an author-only one.
	ErrUnauthorized = errors.New("not allowed")

	// ErrNotMember: the caller is not in the cove at all.
	ErrNotMember = errors.New("not a member of this cove")

	// ErrEmptyPool: the roulette had nothing to draw from.
	ErrEmptyPool = errors.New("no memories in this cove yet")

	// ErrCodeCollision: join-code generation kept colliding with existing
	// coves; the caller may retry.
	ErrCodeCollision = errors.New("could not allocate a unique join code")

	// ErrConditionFailed: a conditional write or atomic batch was rejected
	// by the store. Nothing was applied; the documents are untouched.
	ErrConditionFailed = errors.New("conditional check failed")
)
