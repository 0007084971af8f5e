package handler

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-ranker-go/internal/storage/models"
)

// CreateJob POST /jobs
func (h *Handler) CreateJob(ctx context.Context, c *app.RequestContext) {
	var job models.Job
	if err := json.Unmarshal(c.Request.Body(), &job); err != nil {
		badRequest(c, "请求体不是合法的JSON: "+err.Error())
		return
	}
	// ID、状态和时间由服务端生成
	job.JobID = ""
	job.Status = ""

	created, err := h.svc.CreateJob(ctx, &job)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusCreated, created)
}

// GetJob GET /jobs/:id
func (h *Handler) GetJob(ctx context.Context, c *app.RequestContext) {
	job, err := h.svc.GetJob(ctx, c.Param("id"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, job)
}

// ListJobs GET /jobs?offset=&limit=
func (h *Handler) ListJobs(ctx context.Context, c *app.RequestContext) {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 20)
	jobs, total, err := h.svc.ListJobs(ctx, offset, limit)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	c.JSON(consts.StatusOK, utils.H{
		"jobs":   jobs,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}
