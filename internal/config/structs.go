package config

import (
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Auth      Auth
	Webserver Webserver
}

// Auth holds the settings of the authentication issuer.
type Auth struct {
	Secret          string // HMAC signing secret for access tokens
	TokenTTLMinutes int    // access token lifetime in minutes
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
}
