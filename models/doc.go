// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names are camelCase to match the voting frontend.

# Request Types

  - VoterLoginRequest: accessCode
  - AdminLoginRequest: username, password
  - SubmitBallotRequest: votes ([]VoteChoice{positionId, candidateId})

# Response Types

  - VoterLoginResponse: message, voter
  - BallotResponse: positions with candidate aliases
  - ResultsResponse: positions with candidate full names, aliases and votes
  - Turnout: totalVoters, voted, percentage
  - AuditLogsResponse: logs
  - ErrorResponse: error, message

# Domain Types

  - Voter, VoterProfile: voter row and its public view
  - Admin: admin credentials row
  - BallotPosition, BallotCandidate: ballot catalog
  - PositionResult, CandidateResult: aggregated results
  - AuditLogEntry: audit log row

# Constants

Audit actions:

	ActionLogin        = "login"
	ActionSubmitBallot = "submit_ballot"
*/
package models
