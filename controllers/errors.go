package controllers

import "errors"

// Flow errors recovered at the handler boundary; none are fatal.
var (
	ErrNoQuestionLeft  = errors.New("no question left")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNoAnswerToUndo  = errors.New("no answer to undo")
	ErrSkipNotAllowed  = errors.New("skipping is not allowed")
)
