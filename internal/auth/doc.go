// Package auth implements the authentication issuer and the access control
// guard for the management API.
//
// Authentication exchanges an email/password pair for a signed bearer token
// (JWT). The guard is a single predicate applied to every management route:
// the caller must present a valid token for an active staff account. There is
// no finer-grained per-object policy.
package auth
