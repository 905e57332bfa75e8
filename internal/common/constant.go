// Package common contains shared constants and sentinel errors used across
// the document download API components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// authentication token on inbound requests.
const AuthorizationHeaderName = "Authorization"

// SendingMethodLink and SendingMethodAttach are the two supported values of
// the sending_method field. Attach-origin documents live under a tmp/ key
// prefix so a separate bucket lifecycle policy can expire them.
const (
	SendingMethodLink   = "link"
	SendingMethodAttach = "attach"
)
