package processor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"resume-ranker-go/internal/constants"
	"resume-ranker-go/internal/ranking"
	"resume-ranker-go/internal/storage"
	"resume-ranker-go/internal/storage/models"
	"resume-ranker-go/internal/tracing"
	"resume-ranker-go/internal/types"
)

// RankedApplication 一份投递的排序结果
type RankedApplication struct {
	ApplicationID    string `json:"application_id"`
	CandidateName    string `json:"candidate_name"`
	CandidateEmail   string `json:"candidate_email"`
	OriginalFilename string `json:"original_filename"`
	types.RankingResult
	RankedAt time.Time `json:"ranked_at"`
}

// TextRanking 单次文本排序的结果，附带旧版单一分数
type TextRanking struct {
	types.RankingResult
	LegacyScore float64 `json:"legacy_score"`
}

// RankJob 对岗位下所有已解析的投递重新排序并保存结果
func (s *Service) RankJob(ctx context.Context, jobID string) ([]RankedApplication, error) {
	const op = "RankJob"
	ctx, span := tracer.Start(ctx, "Service.RankJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	jdText := job.Text()
	span.SetAttributes(attribute.String("job.description", tracing.SafeText(jdText)))

	if s.cache != nil {
		token, err := s.cache.AcquireRankLock(ctx, jobID, s.opts.rankLockTTL)
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeRedis)
			return nil, newProcessError(op, jobID, err, "获取排序锁失败")
		}
		if token == "" {
			return nil, newProcessError(op, jobID, ErrRankingInProgress, "")
		}
		defer func() {
			if _, err := s.cache.ReleaseRankLock(context.WithoutCancel(ctx), jobID, token); err != nil {
				s.logger.Warn().Err(err).Str("job_id", jobID).Msg("释放排序锁失败")
			}
		}()
	}

	apps, err := s.repo.ListApplications(ctx, jobID, constants.StatusParsed)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, newProcessError(op, jobID, err, "查询已解析投递失败")
	}
	span.SetAttributes(attribute.Int("applications", len(apps)))

	byID := make(map[string]*models.Application, len(apps))
	candidates := make([]ranking.Candidate, 0, len(apps))
	for i := range apps {
		byID[apps[i].ApplicationID] = &apps[i]
		candidates = append(candidates, ranking.Candidate{ID: apps[i].ApplicationID, Text: apps[i].ResumeText})
	}

	start := time.Now()
	ranked := s.engine.RankBatch(ctx, jdText, candidates)
	rankedAt := time.Now()

	rows := make([]models.Ranking, 0, len(ranked))
	results := make([]RankedApplication, 0, len(ranked))
	for _, rc := range ranked {
		highlights, err := models.ToJSON(rc.Result.Highlights)
		if err != nil {
			return nil, newProcessError(op, jobID, err, "序列化高亮失败")
		}
		rows = append(rows, models.Ranking{
			JobID:            jobID,
			ApplicationID:    rc.ID,
			Score:            rc.Result.Score,
			SemanticScore:    rc.Result.DetailedScores.Semantic,
			TFIDFScore:       rc.Result.DetailedScores.TFIDF,
			TermOverlapScore: rc.Result.DetailedScores.TermOverlap,
			Reasoning:        rc.Result.Reasoning,
			HighlightsJSON:   highlights,
			Embedder:         s.engine.EmbedderName(),
			RankedAt:         rankedAt,
		})
		results = append(results, newRankedApplication(byID[rc.ID], rc.ID, rc.Result, rankedAt))
	}

	if err := s.repo.SaveRankings(ctx, jobID, rows); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, newProcessError(op, jobID, err, "保存排序结果失败")
	}
	s.cacheRankings(ctx, jobID, results)
	if len(results) > 0 {
		top := results[0]
		span.SetAttributes(
			attribute.String("ranking.top.application_id", top.ApplicationID),
			candidateAttr("ranking.top.candidate.name", top.CandidateName),
			attribute.Float64("ranking.top.score", top.Score),
		)
	}

	s.logger.Info().
		Str("job_id", jobID).
		Int("applications", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("岗位排序完成")
	span.SetStatus(codes.Ok, "")
	return results, nil
}

func newRankedApplication(app *models.Application, id string, result types.RankingResult, rankedAt time.Time) RankedApplication {
	ra := RankedApplication{ApplicationID: id, RankingResult: result, RankedAt: rankedAt}
	if app != nil {
		ra.CandidateName = app.CandidateName
		ra.CandidateEmail = app.CandidateEmail
		ra.OriginalFilename = app.OriginalFilename
	}
	if ra.Highlights == nil {
		ra.Highlights = []types.Highlight{}
	}
	return ra
}

func (s *Service) cacheRankings(ctx context.Context, jobID string, results []RankedApplication) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(results)
	if err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID).Msg("序列化排序结果失败")
		return
	}
	if err := s.cache.CacheRankingResult(ctx, jobID, payload); err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID).Msg("缓存排序结果失败")
	}
}

// ListRankings 返回岗位最近一次排序结果，优先读缓存
func (s *Service) ListRankings(ctx context.Context, jobID string) ([]RankedApplication, error) {
	const op = "ListRankings"
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, err := s.cache.GetCachedRankingResult(ctx, jobID)
		if err != nil {
			s.logger.Warn().Err(err).Str("job_id", jobID).Msg("读取排序缓存失败")
		} else if payload != nil {
			var cached []RankedApplication
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	rows, err := s.repo.ListRankings(ctx, jobID)
	if err != nil {
		return nil, newProcessError(op, jobID, err, "查询排序结果失败")
	}
	apps, err := s.repo.ListApplications(ctx, jobID, "")
	if err != nil {
		return nil, newProcessError(op, jobID, err, "查询投递失败")
	}
	byID := make(map[string]*models.Application, len(apps))
	for i := range apps {
		byID[apps[i].ApplicationID] = &apps[i]
	}

	results := make([]RankedApplication, 0, len(rows))
	for _, row := range rows {
		var highlights []types.Highlight
		if len(row.HighlightsJSON) > 0 {
			if err := json.Unmarshal(row.HighlightsJSON, &highlights); err != nil {
				s.logger.Warn().Err(err).Str("application_id", row.ApplicationID).Msg("高亮数据损坏")
			}
		}
		result := types.RankingResult{
			Score:      row.Score,
			Reasoning:  row.Reasoning,
			Highlights: highlights,
			DetailedScores: types.DetailedScores{
				Semantic:    row.SemanticScore,
				TFIDF:       row.TFIDFScore,
				TermOverlap: row.TermOverlapScore,
			},
		}
		results = append(results, newRankedApplication(byID[row.ApplicationID], row.ApplicationID, result, row.RankedAt))
	}
	if len(results) > 0 {
		s.cacheRankings(ctx, jobID, results)
	}
	return results, nil
}

// RequestRanking 发布异步排序请求，返回消息ID
func (s *Service) RequestRanking(ctx context.Context, jobID string) (string, error) {
	const op = "RequestRanking"
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return "", err
	}
	if s.publisher == nil {
		return "", newProcessError(op, jobID, ErrStorageNotInit, "消息队列未配置")
	}
	msg := storage.NewJobRankRequestedMessage(jobID)
	if err := s.publisher.PublishJSON(ctx, s.opts.topology.Exchange, s.opts.topology.RankRoutingKey, msg, true); err != nil {
		return "", newProcessError(op, jobID, err, "发布排序请求失败")
	}
	s.logger.Info().Str("job_id", jobID).Str("message_id", msg.MessageID).Msg("已提交排序请求")
	return msg.MessageID, nil
}

// HandleRankRequested 排序队列的消息处理函数。返回 false 表示需要重试
func (s *Service) HandleRankRequested(ctx context.Context, body []byte) bool {
	var msg storage.JobRankRequestedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Error().Err(err).Msg("无法解析排序消息，丢弃")
		return true
	}
	_, err := s.RankJob(ctx, msg.JobID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrJobNotFound):
		s.logger.Warn().Str("job_id", msg.JobID).Msg("岗位不存在，丢弃排序消息")
		return true
	case errors.Is(err, ErrRankingInProgress):
		// 正在进行的排序会读到同一批投递
		s.logger.Info().Str("job_id", msg.JobID).Msg("岗位正在排序，跳过重复请求")
		return true
	default:
		s.logger.Error().Err(err).Str("job_id", msg.JobID).Msg("岗位排序失败")
		return false
	}
}

// RankText 对任意 JD 与简历文本排序
func (s *Service) RankText(ctx context.Context, jd, resume string) TextRanking {
	ctx, span := tracer.Start(ctx, "Service.RankText")
	defer span.End()
	span.SetAttributes(attribute.Int("jd.length", len(jd)), attribute.Int("resume.length", len(resume)))

	return TextRanking{
		RankingResult: s.engine.RankWithReasoning(ctx, jd, resume),
		LegacyScore:   s.engine.Rank(ctx, jd, resume),
	}
}
