package shared

import (
	"strings"

	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSessionID 读取会话中间件写入的会话ID，缺失时直接返回错误响应。
func GetSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.SessionContextKey)
	if !exists {
		RespondError(c, response.CodeBadRequest, "error.session_invalid", nil)
		return "", false
	}
	id, ok := value.(string)
	if !ok || strings.TrimSpace(id) == "" {
		RespondError(c, response.CodeBadRequest, "error.session_invalid", nil)
		return "", false
	}
	return id, true
}
