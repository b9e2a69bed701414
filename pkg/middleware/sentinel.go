package middleware

import (
	"context"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	sentinelconf "github.com/alibaba/sentinel-golang/core/config"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
)

// InitSentinel starts sentinel and installs the flow rules of the write
// endpoints. logDir empty keeps sentinel's default log location.
func InitSentinel(logDir string, writeQPS float64) error {
	conf := sentinelconf.NewDefaultConfig()
	conf.Sentinel.App.Name = "vidtube"
	if logDir != "" {
		conf.Sentinel.Log.Dir = logDir
	}
	if err := sentinel.InitWithConfig(conf); err != nil {
		return err
	}
	return LoadWriteRules(writeQPS)
}

// LoadWriteRules replaces the flow rules. Toggles share the write budget but
// are guarded separately so a like storm cannot starve uploads.
func LoadWriteRules(writeQPS float64) error {
	_, err := flow.LoadRules([]*flow.Rule{
		{
			Resource:               constants.WriteResource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              writeQPS,
			StatIntervalInMs:       1000,
		},
		{
			Resource:               constants.ToggleResource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              writeQPS,
			StatIntervalInMs:       1000,
		},
	})
	return err
}

// FlowGuard admits the request through the sentinel resource or answers
// with TooManyRequests.
func FlowGuard(resource string, onBlocked func(ctx context.Context, c *app.RequestContext, err errno.ErrNo)) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		e, blocked := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if blocked != nil {
			hlog.CtxWarnf(ctx, "flow guard %s blocked %s", resource, c.FullPath())
			c.Abort()
			onBlocked(ctx, c, errno.TooManyRequestsErr)
			return
		}
		defer e.Exit()
		c.Next(ctx)
	}
}
