package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/component_promoter/pkg/common"
)

// Ping answers health checks.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Msg: "pong"})
}

func writeBadRequest(c *app.RequestContext, err error) {
	c.JSON(consts.StatusBadRequest, common.CommonResponse{
		Code:  consts.StatusBadRequest,
		Error: err.Error(),
	})
}

func writeNotFound(c *app.RequestContext, msg string) {
	c.JSON(consts.StatusNotFound, common.CommonResponse{
		Code:  consts.StatusNotFound,
		Error: msg,
	})
}

func writeInternalError(c *app.RequestContext, err error) {
	c.JSON(consts.StatusInternalServerError, common.CommonResponse{
		Code:  consts.StatusInternalServerError,
		Error: err.Error(),
	})
}

func writeOK(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: data,
	})
}
