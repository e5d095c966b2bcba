package calculator

import "errors"

// Errors returned by the handicap engine. Too few rounds is not an error;
// results report it through their Rated field.
var (
	// ErrInvariantViolation indicates the loaded record is internally
	// inconsistent, for example twenty or more rounds without a low index.
	ErrInvariantViolation = errors.New("handicap record invariant violated")

	// ErrUnsupportedHoles indicates a round that is neither 9 nor 18 holes.
	ErrUnsupportedHoles = errors.New("round must be 9 or 18 holes")

	// ErrRoundNotFound indicates a revision or removal named an unknown round.
	ErrRoundNotFound = errors.New("round not found in record")
)
