package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 全部接口（上传、分析、问答、检索）共用的响应信封。
// 业务失败也返回 HTTP 200，调用方只看 code
type Response struct {
	Code int         `json:"code"` // 0 成功，-1 失败
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// Fail 业务失败，msg 对调用方可读
func Fail(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{
		Code: -1,
		Msg:  msg,
	})
}
