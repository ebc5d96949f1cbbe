package arch

import "errors"

var (
	ErrArchitectureNotInitialised = errors.New("architecture not initialised")
	ErrUnsupportedArchitecture    = errors.New("unsupported architecture")
	ErrInvalidRegister            = errors.New("invalid register")
	ErrInvalidMemoryRange         = errors.New("invalid memory range")
)
