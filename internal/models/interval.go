package models

import "time"

// NormalizedInterval is a derived, non-persisted span produced by the
// normalizer: adjacent same-context events merged into one interval, with
// the portion overlapped by "not-afk" time resolved into ActiveDur.
type NormalizedInterval struct {
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	App       string        `json:"app,omitempty"`
	Title     string        `json:"title,omitempty"`
	Active    bool          `json:"active"`
	ActiveDur time.Duration `json:"-"`
}

// Duration returns the full clock span of the interval, active or not.
func (n NormalizedInterval) Duration() time.Duration {
	return n.End.Sub(n.Start)
}
