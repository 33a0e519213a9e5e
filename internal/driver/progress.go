package driver

import "time"

// Stage is the step of the per-file pipeline a file is in.
type Stage string

const (
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StageRewrite Stage = "rewrite"
	StagePrint   Stage = "print"
)

// Status is where a file is within its stage, or how it ended.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusCached means a clean cache hit let the file skip parsing.
	StatusCached Status = "cached"
	StatusDone   Status = "done"
	// StatusError means the file failed or produced an error diagnostic.
	StatusError Status = "error"
)

// Event reports progress for one file. Terminal events (cached, done,
// error) also carry the elapsed time and the number of changes found.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Changes int
}

// ProgressSink receives events from every worker, so implementations must
// be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink sends events to Ch. It blocks while Ch is full.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
