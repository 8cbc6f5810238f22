package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrDuplicateID            = fmt.Errorf("participant id already registered")
	ErrUnknownParticipant     = fmt.Errorf("unknown participant")
	ErrInactiveSender         = fmt.Errorf("sender has not chosen a name and a language")
	ErrMalformedLanguage      = fmt.Errorf("malformed language")
	ErrTranslationUnavailable = fmt.Errorf("translation unavailable")
	ErrBackpressure           = fmt.Errorf("buffer is full")
	ErrUnknownConnection      = fmt.Errorf("unknown connection")
	ErrInvalidPayload         = fmt.Errorf("invalid payload")
)
