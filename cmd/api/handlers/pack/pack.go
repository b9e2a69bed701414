package pack

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
)

type Response struct {
	StatusCode int64       `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

type ErrorResponse struct {
	StatusCode int64    `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// SendResponse pack response. The HTTP status equals the error class code.
func SendResponse(ctx context.Context, c *app.RequestContext, err error, data interface{}, message string) {
	if err != nil {
		SendFailure(ctx, c, errno.ConvertErr(err))
		return
	}
	c.JSON(errno.SuccessCode, Response{
		StatusCode: errno.SuccessCode,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// SendFailure writes the failure envelope. It also serves as the jwt and
// flow guard rejection handler.
func SendFailure(ctx context.Context, c *app.RequestContext, Err errno.ErrNo) {
	if Err.ErrCode >= errno.ServiceErrCode {
		hlog.CtxErrorf(ctx, "%s %s failed: %s", c.Method(), c.FullPath(), Err.ErrMsg)
	}
	c.JSON(Err.StatusCode(), ErrorResponse{
		StatusCode: Err.ErrCode,
		Message:    Err.ErrMsg,
		Success:    false,
		Errors:     []string{},
	})
}

// BindErr reports a request that could not be bound as InvalidArgument.
func BindErr(ctx context.Context, c *app.RequestContext, err error) {
	hlog.CtxInfof(ctx, "bind request: %v", err)
	SendFailure(ctx, c, errno.InvalidArgumentErr.WithMessage(err.Error()))
}

type PageParam struct {
	PageNum  int64 `query:"page"`
	PageSize int64 `query:"limit"`
}

func (p PageParam) ToPage() engage.Page {
	return engage.NewPage(p.PageNum, p.PageSize)
}
