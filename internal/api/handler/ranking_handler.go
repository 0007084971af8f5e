package handler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RankTextRequest POST /rank 的请求体
type RankTextRequest struct {
	JobDescription string `json:"job_description"`
	Resume         string `json:"resume"`
}

// RankJob POST /jobs/:id/rank，?async=true 时只提交排序任务
func (h *Handler) RankJob(ctx context.Context, c *app.RequestContext) {
	jobID := c.Param("id")
	if c.Query("async") == "true" {
		messageID, err := h.svc.RequestRanking(ctx, jobID)
		if err != nil {
			h.fail(ctx, c, err)
			return
		}
		c.JSON(consts.StatusAccepted, utils.H{"job_id": jobID, "message_id": messageID, "status": "queued"})
		return
	}

	results, err := h.svc.RankJob(ctx, jobID)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, utils.H{"job_id": jobID, "count": len(results), "rankings": results})
}

// ListRankings GET /jobs/:id/rankings
func (h *Handler) ListRankings(ctx context.Context, c *app.RequestContext) {
	jobID := c.Param("id")
	results, err := h.svc.ListRankings(ctx, jobID)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, utils.H{"job_id": jobID, "count": len(results), "rankings": results})
}

// RankText POST /rank
func (h *Handler) RankText(ctx context.Context, c *app.RequestContext) {
	var req RankTextRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		badRequest(c, "请求体不是合法的JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" || strings.TrimSpace(req.Resume) == "" {
		badRequest(c, "job_description 和 resume 不能为空")
		return
	}
	c.JSON(consts.StatusOK, h.svc.RankText(ctx, req.JobDescription, req.Resume))
}
