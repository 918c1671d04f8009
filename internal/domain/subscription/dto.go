// internal/domain/subscription/dto.go
package subscription

// StatusResponse is what /billing/status returns: the raw snapshot plus
// the gate's verdict so the client renders without re-deriving rules.
type StatusResponse struct {
	Snapshot  Snapshot `json:"subscription"`
	Locked    bool     `json:"locked"`
	Message   string   `json:"message,omitempty"`
	Remaining int      `json:"remaining,omitempty"`
}

// VerifyResponse reports a payment verification outcome together with the
// refreshed snapshot, so success needs no second round trip.
type VerifyResponse struct {
	Verified bool      `json:"verified"`
	Message  string    `json:"message"`
	Snapshot *Snapshot `json:"subscription,omitempty"`
}
