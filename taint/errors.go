package taint

import "errors"

var ErrTaintEngineNotInitialised = errors.New("taint engine not initialised")
