package consult

// ErrorPrefix opens every user-visible failure message. The GUI keys on
// the machine-readable Kind instead, but the prefix is kept for display
// parity.
const ErrorPrefix = "An error occurred: "

type Kind string

const (
	KindTranscription Kind = "transcription_failed"
	KindVision        Kind = "vision_failed"
	KindSynthesis     Kind = "synthesis_failed"
	KindArchive       Kind = "archive_failed"
)

// Error carries which pipeline stage failed plus the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the human-readable form shown in both text slots of a
// failed consultation.
func (e *Error) Message() string {
	return ErrorPrefix + e.Err.Error()
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
