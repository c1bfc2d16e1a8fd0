package main

import "time"

// Event is one observable pipeline occurrence. Events are delivered to
// listeners in emission order; everything for post i is delivered before
// anything for post i+1 because processing is strictly sequential.
type Event interface {
	isEvent()
}

// PostStartingEvent fires before any pipeline stage runs for a post.
type PostStartingEvent struct {
	Slug  string
	Title string
	Index int
	Total int
}

// AssetProcessedEvent fires once per distinguishable asset outcome:
// downloaded, already present, or failed (with the permanent flag).
type AssetProcessedEvent struct {
	Filename  string
	Slug      string
	Success   bool
	Permanent bool
	Message   string
}

// PostCompletedEvent fires exactly once per post, whatever the outcome.
type PostCompletedEvent struct {
	Outcome  ConversionOutcome
	Index    int
	Total    int
	Duration time.Duration
}

// RunErrorEvent fires alongside any per-post failure and for run-fatal
// errors, in addition to (not instead of) the completed event.
type RunErrorEvent struct {
	Kind    ErrorKind
	Slug    string
	Message string
}

func (PostStartingEvent) isEvent()   {}
func (AssetProcessedEvent) isEvent() {}
func (PostCompletedEvent) isEvent()  {}
func (RunErrorEvent) isEvent()       {}

// EventListener receives pipeline events.
type EventListener func(Event)

// newLogListener adapts a Logger into an EventListener.
func newLogListener(log Logger) EventListener {
	return func(e Event) {
		switch ev := e.(type) {
		case PostStartingEvent:
			log.Infof("[%d/%d] converting %s", ev.Index, ev.Total, ev.Slug)
		case AssetProcessedEvent:
			switch {
			case ev.Success:
				log.Infof("  → asset %s", ev.Filename)
			case ev.Permanent:
				log.Warnf("  → asset %s inaccessible, keeping remote URL: %s", ev.Filename, ev.Message)
			default:
				log.Warnf("  → asset %s failed, will retry next run: %s", ev.Filename, ev.Message)
			}
		case PostCompletedEvent:
			switch ev.Outcome.Status {
			case StatusConverted:
				log.Successf("%s → %s", ev.Outcome.Slug, ev.Outcome.OutputPath)
			case StatusSkipped:
				log.Infof("skipping %s: already converted", ev.Outcome.Slug)
			case StatusFailed:
				log.Errorf("%s: %v", ev.Outcome.Slug, ev.Outcome.Error)
			}
		case RunErrorEvent:
			// Per-post failures are already reported by their completed
			// event; only run-level errors need a line of their own.
			if ev.Slug == "" {
				log.Errorf("%s error: %s", ev.Kind, ev.Message)
			}
		}
	}
}
