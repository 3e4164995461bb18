package pipeline

import "github.com/handiism/tracktag/internal/model"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
	Track   *TrackUpdate
}

// TrackState is the lifecycle of one track.
type TrackState int

const (
	StatePending TrackState = iota
	StateTranscoding
	StateTagged
	StateFailed
)

func (s TrackState) String() string {
	switch s {
	case StateTranscoding:
		return "transcoding"
	case StateTagged:
		return "tagged"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// TrackUpdate accompanies events that change a track's state.
type TrackUpdate struct {
	ID     model.TrackID
	Output string
	State  TrackState
}
