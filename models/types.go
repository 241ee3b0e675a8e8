package models

import "time"

// Audit actions
const (
	ActionLogin        = "login"
	ActionSubmitBallot = "submit_ballot"
)

// Request types

type VoterLoginRequest struct {
	AccessCode string `json:"accessCode"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Pointers so a missing field can be told apart from a zero id
type VoteChoice struct {
	PositionID  *int64 `json:"positionId"`
	CandidateID *int64 `json:"candidateId"`
}

type SubmitBallotRequest struct {
	Votes []VoteChoice `json:"votes"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type VoterLoginResponse struct {
	Message string       `json:"message"`
	Voter   VoterProfile `json:"voter"`
}

type BallotResponse struct {
	Positions []BallotPosition `json:"positions"`
}

type ResultsResponse struct {
	Positions []PositionResult `json:"positions"`
}

type AuditLogsResponse struct {
	Logs []AuditLogEntry `json:"logs"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Domain types

type Voter struct {
	ID         int64
	Name       string
	AccessCode string
	Voted      bool
}

// VoterProfile is the public view of a voter; the access code never leaves the server.
type VoterProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Voted bool   `json:"voted"`
}

type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
}

// BallotPosition is a position as shown to voters: aliases only, no counts.
type BallotPosition struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Candidates  []BallotCandidate `json:"candidates"`
}

type BallotCandidate struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
}

type PositionResult struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Candidates []CandidateResult `json:"candidates"`
}

type CandidateResult struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Alias    string `json:"alias"`
	Votes    int64  `json:"votes"`
}

type Turnout struct {
	TotalVoters int64   `json:"totalVoters"`
	Voted       int64   `json:"voted"`
	Percentage  float64 `json:"percentage"`
}

type AuditLogEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
