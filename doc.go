// Package main provides the entry point for the identity administration
// application. It runs a web server using the Fiber framework that exposes a
// REST API for managing user accounts, groups and permissions, including the
// assignment relationships between them. The application uses gorm for data
// persistence and issues JWT bearer tokens for authenticating staff users.
package main
