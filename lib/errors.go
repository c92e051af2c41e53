package lib

import "errors"

var (
	ErrMissingConfig = errors.New("missing information from Config object")
	ErrNotDirectory  = errors.New("not a directory")
	ErrNotConnected  = errors.New("session not connected")
	ErrLoggedOut     = errors.New("server closed the connection")
)
