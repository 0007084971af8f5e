package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"resume-ranker-go/internal/constants"
	"resume-ranker-go/internal/parser"
	"resume-ranker-go/internal/storage"
	"resume-ranker-go/internal/storage/models"
	"resume-ranker-go/internal/tracing"
	"resume-ranker-go/pkg/utils"
)

// readUpload 校验扩展名并读入文件内容，超过上限时返回 ErrFileTooLarge
func (s *Service) readUpload(op, filename string, reader io.Reader, size int64) ([]byte, error) {
	ext := utils.FileExt(filename)
	if !s.opts.allowedExtensions[ext] || !s.parser.Supports(filename) {
		return nil, newProcessError(op, "", ErrUnsupportedFile, fmt.Sprintf("扩展名 %q", ext))
	}
	limit := s.opts.maxFileSize
	if limit > 0 && size > limit {
		return nil, newProcessError(op, "", ErrFileTooLarge, fmt.Sprintf("%d > %d 字节", size, limit))
	}
	if limit > 0 {
		reader = io.LimitReader(reader, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, newProcessError(op, "", err, "读取上传文件失败")
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, newProcessError(op, "", ErrFileTooLarge, fmt.Sprintf("超过 %d 字节", limit))
	}
	if len(data) == 0 {
		return nil, newProcessError(op, "", ErrEmptyFile, "")
	}
	return data, nil
}

// SubmitApplication 接收一份简历：去重、上传原件、写入投递记录并投递解析任务。
// 未配置消息队列时在请求内同步解析
func (s *Service) SubmitApplication(ctx context.Context, jobID, filename string, reader io.Reader, size int64) (*models.Application, error) {
	const op = "SubmitApplication"
	ctx, span := tracer.Start(ctx, "Service.SubmitApplication")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID), attribute.String("file.name", tracing.TruncateString(filename, 100)))

	if s.repo == nil || s.objects == nil {
		return nil, newProcessError(op, jobID, ErrStorageNotInit, "")
	}
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}

	filename = utils.CleanFilename(filename)
	data, err := s.readUpload(op, filename, reader, size)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	fileMD5 := utils.CalculateMD5(data)
	span.SetAttributes(attribute.String("file.md5", fileMD5), attribute.Int("file.size", len(data)))

	if s.cache != nil {
		exists, err := s.cache.CheckAndAddFileMD5(ctx, jobID, fileMD5)
		if err != nil {
			// 去重不可用时仍接收投递
			s.logger.Warn().Err(err).Str("job_id", jobID).Msg("MD5去重检查失败，跳过去重")
		} else if exists {
			return nil, newProcessError(op, jobID, ErrDuplicateResume, fileMD5)
		}
	}

	app := &models.Application{
		ApplicationID:    newID(),
		JobID:            jobID,
		OriginalFilename: filename,
		FileMD5:          fileMD5,
		Status:           constants.StatusUploaded,
	}
	span.SetAttributes(attribute.String("application.id", app.ApplicationID))

	rollback := func() {
		if s.cache == nil {
			return
		}
		if err := s.cache.RemoveFileMD5(context.WithoutCancel(ctx), jobID, fileMD5); err != nil {
			s.logger.Warn().Err(err).Str("job_id", jobID).Msg("回滚MD5记录失败")
		}
	}

	objectKey, err := s.objects.UploadResumeFile(ctx, jobID, app.ApplicationID, utils.FileExt(filename), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		rollback()
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStore)
		return nil, newProcessError(op, app.ApplicationID, err, "上传原始简历失败")
	}
	app.ObjectKey = objectKey

	if err := s.repo.CreateApplication(ctx, app); err != nil {
		rollback()
		if delErr := s.objects.DeleteFile(context.WithoutCancel(ctx), objectKey); delErr != nil {
			s.logger.Warn().Err(delErr).Str("object_key", objectKey).Msg("清理孤立对象失败")
		}
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, newProcessError(op, app.ApplicationID, err, "保存投递记录失败")
	}
	if s.cache != nil {
		if err := s.cache.SetFileApplicationID(ctx, jobID, fileMD5, app.ApplicationID); err != nil {
			s.logger.Warn().Err(err).Str("application_id", app.ApplicationID).Msg("记录MD5映射失败")
		}
	}

	if s.publisher == nil {
		if err := s.parseAndStore(ctx, app, data); err != nil {
			return nil, err
		}
		span.SetStatus(codes.Ok, "parsed inline")
		return app, nil
	}

	msg := storage.NewResumeUploadedMessage(app.ApplicationID, jobID, filename, objectKey, fileMD5)
	if err := s.publisher.PublishJSON(ctx, s.opts.topology.Exchange, s.opts.topology.UploadedRoutingKey, msg, true); err != nil {
		rollback()
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		reason := "发布解析任务失败: " + err.Error()
		if markErr := s.repo.MarkApplicationFailed(context.WithoutCancel(ctx), app.ApplicationID, constants.StatusFailed, reason); markErr != nil {
			s.logger.Error().Err(markErr).Str("application_id", app.ApplicationID).Msg("标记投递失败状态失败")
		}
		return nil, newProcessError(op, app.ApplicationID, err, "发布解析任务失败")
	}

	s.logger.Info().
		Str("job_id", jobID).
		Str("application_id", app.ApplicationID).
		Str("message_id", msg.MessageID).
		Msg("简历已接收，等待解析")
	span.SetStatus(codes.Ok, "")
	return app, nil
}

// parseAndStore 解析原件并写回投递记录。文档无法提取时记为失败，不返回错误
func (s *Service) parseAndStore(ctx context.Context, app *models.Application, data []byte) error {
	ctx, span := tracer.Start(ctx, "Service.parseAndStore")
	defer span.End()
	span.SetAttributes(attribute.String("application.id", app.ApplicationID))

	tmp, err := os.CreateTemp("", "resume-*"+utils.FileExt(app.OriginalFilename))
	if err != nil {
		return newProcessError("ParseApplication", app.ApplicationID, err, "创建临时文件失败")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return newProcessError("ParseApplication", app.ApplicationID, err, "写入临时文件失败")
	}
	tmp.Close()

	res, parseErr := s.parser.ParseFile(ctx, tmp.Name())
	if parseErr != nil {
		tracing.RecordError(span, parseErr, tracing.ErrorTypeParse)
		reason := tracing.TruncateString(parseErr.Error(), 500)
		if err := s.repo.MarkApplicationFailed(ctx, app.ApplicationID, constants.StatusFailed, reason); err != nil {
			return newProcessError("ParseApplication", app.ApplicationID, err, "记录解析失败状态失败")
		}
		app.Status = constants.StatusFailed
		app.FailureReason = reason
		// 允许候选人修正文件后重新投递
		if s.cache != nil {
			if err := s.cache.RemoveFileMD5(ctx, app.JobID, app.FileMD5); err != nil {
				s.logger.Warn().Err(err).Str("application_id", app.ApplicationID).Msg("回滚MD5记录失败")
			}
		}
		s.logger.Warn().Err(parseErr).Str("application_id", app.ApplicationID).Msg("简历解析失败")
		return nil
	}

	profileJSON, err := models.ToJSON(res.Profile)
	if err != nil {
		return newProcessError("ParseApplication", app.ApplicationID, err, "序列化画像失败")
	}
	update := &models.Application{
		CandidateName:  res.Profile.PersonalDetails.Name,
		CandidateEmail: res.Profile.PersonalDetails.Email,
		CandidatePhone: res.Profile.PersonalDetails.Phone,
		ProfileJSON:    profileJSON,
		ResumeText:     res.Text,
		Status:         constants.StatusParsed,
		ParserVersion:  s.opts.parserVersion,
		ParsedAt:       utils.TimePtr(time.Now()),
	}
	span.SetAttributes(
		candidateAttr("candidate.name", update.CandidateName),
		candidateAttr("candidate.email", update.CandidateEmail),
		candidateAttr("candidate.phone", update.CandidatePhone),
		attribute.Int("resume.length", len(res.Text)),
		attribute.Int("resume.skills", len(res.Profile.Skills)),
	)
	if err := s.repo.MarkApplicationParsed(ctx, app.ApplicationID, update); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		if errors.Is(err, storage.ErrNotFound) {
			return newProcessError("ParseApplication", app.ApplicationID, ErrApplicationNotFound, "")
		}
		return newProcessError("ParseApplication", app.ApplicationID, err, "保存解析结果失败")
	}

	app.CandidateName = update.CandidateName
	app.CandidateEmail = update.CandidateEmail
	app.CandidatePhone = update.CandidatePhone
	app.ProfileJSON = update.ProfileJSON
	app.ResumeText = update.ResumeText
	app.Status = update.Status
	app.ParserVersion = update.ParserVersion
	app.ParsedAt = update.ParsedAt

	if s.cache != nil {
		if err := s.cache.InvalidateRankingResult(ctx, app.JobID); err != nil {
			s.logger.Warn().Err(err).Str("job_id", app.JobID).Msg("清除排序缓存失败")
		}
	}
	s.logger.Info().
		Str("application_id", app.ApplicationID).
		Int("skills", len(res.Profile.Skills)).
		Msg("简历解析完成")
	return nil
}

// candidateAttr 候选人信息写入 span 前做掩码
func candidateAttr(key, value string) attribute.KeyValue {
	return attribute.String(key, tracing.SafeAttributeValue(key, value, tracing.DefaultMaxLength))
}

// HandleResumeUploaded 解析队列的消息处理函数。返回 false 表示需要重试
func (s *Service) HandleResumeUploaded(ctx context.Context, body []byte) bool {
	var msg storage.ResumeUploadedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Error().Err(err).Msg("无法解析上传消息，丢弃")
		return true
	}
	log := s.logger.With().Str("application_id", msg.ApplicationID).Str("message_id", msg.MessageID).Logger()

	app, err := s.repo.GetApplication(ctx, msg.ApplicationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn().Msg("投递记录不存在，丢弃消息")
			return true
		}
		log.Error().Err(err).Msg("读取投递记录失败")
		return false
	}
	if app.Status != constants.StatusUploaded {
		log.Debug().Str("status", app.Status).Msg("投递已处理，跳过")
		return true
	}

	data, err := s.objects.GetResumeFile(ctx, app.ObjectKey)
	if err != nil {
		log.Error().Err(err).Str("object_key", app.ObjectKey).Msg("下载原始简历失败")
		return false
	}
	if err := s.parseAndStore(ctx, app, data); err != nil {
		log.Error().Err(err).Msg("处理简历失败")
		return false
	}
	return true
}

// ParsePreview 同步解析上传文件但不保存，用于表单自动填充
func (s *Service) ParsePreview(ctx context.Context, filename string, reader io.Reader, size int64) (*parser.Result, error) {
	const op = "ParsePreview"
	ctx, span := tracer.Start(ctx, "Service.ParsePreview")
	defer span.End()

	filename = utils.CleanFilename(filename)
	data, err := s.readUpload(op, filename, reader, size)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	res, err := s.parser.ParseBytes(ctx, filename, data)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeParse)
		if errors.Is(err, parser.ErrUnsupportedFormat) {
			return nil, newProcessError(op, "", ErrUnsupportedFile, err.Error())
		}
		return nil, newProcessError(op, "", err, "文档提取失败")
	}
	return res, nil
}

// GetApplication 读取投递
func (s *Service) GetApplication(ctx context.Context, applicationID string) (*models.Application, error) {
	if s.repo == nil {
		return nil, newProcessError("GetApplication", applicationID, ErrStorageNotInit, "")
	}
	app, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newProcessError("GetApplication", applicationID, ErrApplicationNotFound, "")
		}
		return nil, newProcessError("GetApplication", applicationID, err, "读取投递失败")
	}
	s.attachDownloadURL(ctx, app)
	return app, nil
}

// attachDownloadURL 为原件生成临时下载链接，失败时只记录日志
func (s *Service) attachDownloadURL(ctx context.Context, app *models.Application) {
	if s.objects == nil || app.ObjectKey == "" || s.opts.downloadURLExpiry <= 0 {
		return
	}
	url, err := s.objects.GetPresignedURL(ctx, app.ObjectKey, s.opts.downloadURLExpiry)
	if err != nil {
		s.logger.Warn().Err(err).Str("application_id", app.ApplicationID).Msg("生成下载链接失败")
		return
	}
	app.DownloadURL = url
}

// ListApplications 列出岗位下的投递，status 为空时返回全部
func (s *Service) ListApplications(ctx context.Context, jobID, status string) ([]models.Application, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplications(ctx, jobID, strings.ToLower(status))
	if err != nil {
		return nil, newProcessError("ListApplications", jobID, err, "查询投递失败")
	}
	return apps, nil
}
