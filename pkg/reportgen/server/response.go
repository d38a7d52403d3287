package server

import (
	"net/http"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ErrorResponse is a JSON error reply with the entry logged for it.
type ErrorResponse struct {
	Error errorBody `json:"error"`
	err   error
}

func newErrorResponse(message string, code int, err error) *ErrorResponse {
	return &ErrorResponse{Error: errorBody{Message: message, Code: code}, err: err}
}

func (e *ErrorResponse) log(logger *zap.Logger) {
	fields := []zap.Field{zap.Int("code", e.Error.Code)}
	if e.err != nil {
		fields = append(fields, zap.Error(e.err))
	}
	if e.Error.Code >= http.StatusInternalServerError {
		logger.Error(e.Error.Message, fields...)
		return
	}
	logger.Info(e.Error.Message, fields...)
}

func (e *ErrorResponse) write(ctx iris.Context) error {
	ctx.StatusCode(e.Error.Code)
	return ctx.JSON(e)
}

func writeJSON(ctx iris.Context, code int, v interface{}) error {
	ctx.StatusCode(code)
	return ctx.JSON(v)
}

func writeHTML(ctx iris.Context, html string) {
	ctx.ContentType("text/html; charset=utf-8")
	ctx.StatusCode(http.StatusOK)
	_, _ = ctx.WriteString(html)
}
