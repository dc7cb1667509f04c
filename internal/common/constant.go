package common

const (
	// AuthorizationHeader carries "Bearer <access token>".
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	// RequestIDHeader is echoed back by the server and logged on both sides.
	RequestIDHeader = "X-Request-Id"

	// ProfilePath is the single resource served by the profile API.
	ProfilePath = "/api/profile"
)
