package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrAuthSecretEmpty error if config auth.secret is empty.
	ErrAuthSecretEmpty = errors.New("toml config auth.secret can not be empty")
)
