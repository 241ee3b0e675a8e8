// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session tokens, admin password checks and audit identities.

# Sessions

Sessions are HS256 JWTs valid for two hours. There are two kinds, voter and
admin, each signed with its own key derived from the configured secret and
tagged with a kind claim and audience:

	sessions := auth.NewSessions(cfg.JWTSecret)
	token, expiresAt, err := sessions.Issue(auth.KindVoter, auth.Payload{VoterID: id})
	payload, err := sessions.Validate(auth.KindVoter, token)

Validate returns ErrMissingToken for an empty token and wraps ErrInvalidToken
for bad signatures, expired tokens and kind mismatches.

# Passwords

Admin passwords are stored as bcrypt hashes (cost 12):

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

BurnPasswordCheck runs a comparison against a throwaway hash so an unknown
username costs as much as a wrong password.

# IP Hashing

Login audit entries carry a salted hash of the client IP instead of the raw address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
