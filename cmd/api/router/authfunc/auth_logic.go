package authfunc

import (
	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/jwt"
	"VidTube.com/pkg/middleware"
)

// Auth rejects requests without a valid access token.
func Auth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		jwt.JwtMiddleware.MiddlewareFunc(),
	)
}

// OptionalAuth identifies the viewer when a token is presented.
func OptionalAuth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		jwt.OptionalAuth(pack.SendFailure),
	)
}

// Write guards an authenticated mutation with the write flow budget.
func Write() []app.HandlerFunc {
	return append(Auth(), middleware.FlowGuard(constants.WriteResource, pack.SendFailure))
}

// Toggle guards an authenticated relationship toggle.
func Toggle() []app.HandlerFunc {
	return append(Auth(), middleware.FlowGuard(constants.ToggleResource, pack.SendFailure))
}
