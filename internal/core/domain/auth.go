package domain

// AuthMethod identifies how requests to the platform are authenticated.
type AuthMethod string

const (
	// AuthMethodPAT authenticates with a personal access token.
	AuthMethodPAT AuthMethod = "pat"

	// AuthMethodNone sends unauthenticated requests (60 requests/hour).
	AuthMethodNone AuthMethod = "none"
)
