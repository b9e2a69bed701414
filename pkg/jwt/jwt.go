package jwt

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/jwt"

	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
)

// AccessTokenCookie is read when no Authorization header is sent.
const AccessTokenCookie = "accessToken"

var JwtMiddleware *jwt.HertzJWTMiddleware

// UnauthorizedFunc writes the failure response for a rejected token.
type UnauthorizedFunc func(ctx context.Context, c *app.RequestContext, err errno.ErrNo)

// Init builds the verifier for tokens minted by the identity provider. The
// identity claim carries the user id as a decimal string.
func Init(secret string, timeout time.Duration, onUnauthorized UnauthorizedFunc) error {
	var err error
	JwtMiddleware, err = jwt.New(&jwt.HertzJWTMiddleware{
		Realm:         "vidtube",
		Key:           []byte(secret),
		Timeout:       timeout,
		IdentityKey:   constants.IdentityKey,
		TokenLookup:   "header: Authorization, cookie: " + AccessTokenCookie,
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if v, ok := data.(int64); ok {
				return jwt.MapClaims{constants.IdentityKey: utils.FormatID(v)}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			return utils.Transfer(claims[constants.IdentityKey])
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			id, ok := data.(int64)
			return ok && id > 0
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			hlog.CtxInfof(ctx, "jwt rejected request: %d %s", code, message)
			onUnauthorized(ctx, c, errno.UnauthorizedErr.WithMessage(message))
		},
	})
	return err
}

// GenerateToken mints a token for userId. Only the identity provider and
// tests need this.
func GenerateToken(userId int64) (string, error) {
	token, _, err := JwtMiddleware.TokenGenerator(userId)
	return token, err
}

// ViewerID returns the authenticated user id, false for anonymous requests.
func ViewerID(c *app.RequestContext) (int64, bool) {
	v, ok := c.Get(constants.IdentityKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// Viewer is ViewerID as an optional value.
func Viewer(c *app.RequestContext) *int64 {
	if id, ok := ViewerID(c); ok {
		return &id
	}
	return nil
}

func hasToken(c *app.RequestContext) bool {
	return len(c.GetHeader("Authorization")) > 0 || len(c.Cookie(AccessTokenCookie)) > 0
}

// OptionalAuth identifies the caller when a token is presented and lets
// anonymous requests through. A presented but invalid token is rejected.
func OptionalAuth(onUnauthorized UnauthorizedFunc) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if !hasToken(c) {
			c.Next(ctx)
			return
		}
		claims, err := JwtMiddleware.GetClaimsFromJWT(ctx, c)
		if err != nil {
			c.Abort()
			onUnauthorized(ctx, c, errno.UnauthorizedErr.WithMessage(err.Error()))
			return
		}
		if id := utils.Transfer(claims[constants.IdentityKey]); id > 0 {
			c.Set(constants.IdentityKey, id)
		}
		c.Next(ctx)
	}
}
