// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for correlating audit entries
	return hex.EncodeToString(sum[:8])
}

// VoterActor is the audit log identity of a voter
func VoterActor(voterID int64) string {
	return "voter:" + strconv.FormatInt(voterID, 10)
}

// AdminActor is the audit log identity of an admin
func AdminActor(username string) string {
	return "admin:" + username
}
