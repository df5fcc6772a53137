package redis

// OracleRequest is one pending (or fulfilled) randomness request tracked
// by the dev oracle service
type OracleRequest struct {
	Handle      string `json:"handle"`
	Seed        string `json:"seed"`
	Fulfilled   bool   `json:"fulfilled"`
	RandomValue []byte `json:"random_value,omitempty"`
	RequestedAt int64  `json:"requested_at"`
	FulfilledAt int64  `json:"fulfilled_at,omitempty"`
}
