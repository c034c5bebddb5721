package models

import (
	"time"
)

// VoteSide represents one of the two vote options
type VoteSide string

const (
	// VoteSideYes is a yes vote
	VoteSideYes VoteSide = "yes"

	// VoteSideNo is a no vote
	VoteSideNo VoteSide = "no"
)

// Valid reports whether the side is one of the two supported options.
func (v VoteSide) Valid() bool {
	return v == VoteSideYes || v == VoteSideNo
}

// Commitment is a player's binding, hiding digest for one round
type Commitment struct {
	// Round is the round the commitment was submitted for
	Round int

	// Digest is the opaque binding hash of the player's vote and salt
	Digest []byte

	// SubmittedAt is when the commitment was recorded
	SubmittedAt time.Time
}

// Reveal is a player's disclosed vote plus the salt proving their commitment
type Reveal struct {
	// Round is the round the reveal was submitted for
	Round int

	// Vote is the disclosed vote
	Vote VoteSide

	// Salt is the secret material the commitment digest binds
	Salt []byte

	// SubmittedAt is when the reveal was recorded
	SubmittedAt time.Time
}

// VoteRecord is one entry in a player's permanent vote history
type VoteRecord struct {
	// Round is the round the vote was revealed in
	Round int

	// Vote is the revealed vote
	Vote VoteSide
}
