package models

import "time"

// Bucket type identifiers as written by the watchers into the event store.
const (
	BucketTypeWindow = "currentwindow"
	BucketTypeAFK    = "afkstatus"
	BucketTypeWeb    = "web.tab.current"
	BucketTypeEditor = "app.editor.activity"
)

// AFK status values carried in the data payload of afkstatus events.
const (
	StatusAFK    = "afk"
	StatusNotAFK = "not-afk"
)

// EventData is the per-bucket-type payload of an event. Which fields are
// populated depends on the bucket type: window events carry app+title, AFK
// events carry status, browser events carry url+title+tab_count, editor
// events carry language+file+project.
type EventData struct {
	App      string `json:"app,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   string `json:"status,omitempty"`
	URL      string `json:"url,omitempty"`
	TabCount int    `json:"tab_count,omitempty"`
	Language string `json:"language,omitempty"`
	File     string `json:"file,omitempty"`
	Project  string `json:"project,omitempty"`
}

// Event is a single immutable observation from the event store.
// Timestamp + Duration defines the event's end; Duration is never negative.
type Event struct {
	ID        int64         `json:"id"`
	BucketID  string        `json:"bucket_id"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"-"`
	Data      EventData     `json:"data"`
}

// End returns the instant the event ends.
func (e Event) End() time.Time {
	return e.Timestamp.Add(e.Duration)
}

// Bucket is a named, typed stream of events from one host and one watcher.
type Bucket struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Hostname string    `json:"hostname"`
	Created  time.Time `json:"created"`
}

// BucketInfo summarizes a bucket's contents.
type BucketInfo struct {
	Bucket         Bucket     `json:"bucket"`
	EventCount     int64      `json:"event_count"`
	FirstEventTime *time.Time `json:"first_event_time,omitempty"`
	LastEventTime  *time.Time `json:"last_event_time,omitempty"`
	SampleEvents   []Event    `json:"sample_events"`
}
