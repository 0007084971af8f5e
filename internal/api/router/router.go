package router

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"resume-ranker-go/internal/api/handler"
)

// APIKeyHeader 携带 API Key 的请求头
const APIKeyHeader = "X-API-Key"

var errInvalidAPIKey = errors.New("invalid API key")

// RegisterRoutes 注册 /api/v1 路由。apiKeys 非空时除 /health 外的接口都需要 X-API-Key
func RegisterRoutes(h *server.Hertz, hd *handler.Handler, apiKeys []string) {
	api := h.Group("/api/v1")
	api.GET("/health", hd.Health)

	var middleware []app.HandlerFunc
	if len(apiKeys) > 0 {
		middleware = append(middleware, newKeyAuth(apiKeys))
	}
	secured := api.Group("", middleware...)

	secured.POST("/jobs", hd.CreateJob)
	secured.GET("/jobs", hd.ListJobs)
	secured.GET("/jobs/:id", hd.GetJob)
	secured.POST("/jobs/:id/applications", hd.SubmitApplication)
	secured.GET("/jobs/:id/applications", hd.ListApplications)
	secured.POST("/jobs/:id/rank", hd.RankJob)
	secured.GET("/jobs/:id/rankings", hd.ListRankings)
	secured.GET("/applications/:id", hd.GetApplication)
	secured.POST("/resumes/parse", hd.ParseResume)
	secured.POST("/rank", hd.RankText)
}

func newKeyAuth(apiKeys []string) app.HandlerFunc {
	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+APIKeyHeader, ""),
		keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
			for _, k := range apiKeys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					return true, nil
				}
			}
			return false, errInvalidAPIKey
		}),
		keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
			c.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "缺少或无效的 API Key"})
		}),
	)
}
