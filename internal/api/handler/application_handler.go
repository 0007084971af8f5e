package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-ranker-go/internal/constants"
	"resume-ranker-go/internal/storage/models"
)

// resumeFormField 上传文件的表单字段名
const resumeFormField = "resume"

// SubmitApplication POST /jobs/:id/applications
func (h *Handler) SubmitApplication(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile(resumeFormField)
	if err != nil {
		badRequest(c, "缺少上传文件字段 resume")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "打开上传文件失败"})
		return
	}
	defer file.Close()

	application, err := h.svc.SubmitApplication(ctx, c.Param("id"), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}

	// 异步解析时返回 202，同步解析完成时返回 201
	status := consts.StatusCreated
	if application.Status == constants.StatusUploaded {
		status = consts.StatusAccepted
	}
	c.JSON(status, application)
}

// ListApplications GET /jobs/:id/applications?status=
func (h *Handler) ListApplications(ctx context.Context, c *app.RequestContext) {
	apps, err := h.svc.ListApplications(ctx, c.Param("id"), c.Query("status"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	c.JSON(consts.StatusOK, utils.H{"applications": apps, "count": len(apps)})
}

// GetApplication GET /applications/:id
func (h *Handler) GetApplication(ctx context.Context, c *app.RequestContext) {
	application, err := h.svc.GetApplication(ctx, c.Param("id"))
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, application)
}

// ParseResume POST /resumes/parse，只解析不保存
func (h *Handler) ParseResume(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile(resumeFormField)
	if err != nil {
		badRequest(c, "缺少上传文件字段 resume")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "打开上传文件失败"})
		return
	}
	defer file.Close()

	res, err := h.svc.ParsePreview(ctx, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, res)
}
