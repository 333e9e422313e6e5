package public

import (
	"context"

	handlershared "github.com/mouse-haven/internal/http/handlers/shared"
	"github.com/mouse-haven/internal/i18n"
	"github.com/mouse-haven/internal/service"

	"github.com/gin-gonic/gin"
)

// sessionContext 构造携带会话与语言的请求上下文
func sessionContext(c *gin.Context) (context.Context, bool) {
	sid, ok := handlershared.GetSessionID(c)
	if !ok {
		return nil, false
	}
	ctx := service.WithSessionID(c.Request.Context(), sid)
	ctx = service.WithLocale(ctx, i18n.ResolveLocale(c))
	return ctx, true
}
