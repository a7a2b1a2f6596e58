package configs

import _ "embed"

// DefaultProperties is the application.yml shipped with the binary.
//
//go:embed application.yml
var DefaultProperties []byte

// DefaultMessages is the log message catalogue shipped with the binary.
//
//go:embed messages.yml
var DefaultMessages []byte
