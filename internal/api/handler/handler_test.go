package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ranker-go/internal/api/handler"
	"resume-ranker-go/internal/api/router"
	"resume-ranker-go/internal/constants"
	"resume-ranker-go/internal/parser"
	"resume-ranker-go/internal/processor"
	"resume-ranker-go/internal/storage/models"
	"resume-ranker-go/internal/types"
)

// fakeService 可编排返回值的业务服务
type fakeService struct {
	async      bool
	job        *models.Job
	submitErr  error
	uploaded   []byte
	rankErr    error
	rankings   []processor.RankedApplication
	lastStatus string
}

func (f *fakeService) Async() bool { return f.async }

func (f *fakeService) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.Title == "" {
		return nil, &processor.ProcessError{Op: "CreateJob", Err: processor.ErrInvalidJob}
	}
	job.JobID = "job-1"
	job.Status = constants.JobStatusOpen
	f.job = job
	return job, nil
}

func (f *fakeService) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	if f.job == nil || f.job.JobID != jobID {
		return nil, &processor.ProcessError{Op: "GetJob", ID: jobID, Err: processor.ErrJobNotFound}
	}
	return f.job, nil
}

func (f *fakeService) ListJobs(ctx context.Context, offset, limit int) ([]models.Job, int64, error) {
	return nil, 0, nil
}

func (f *fakeService) SubmitApplication(ctx context.Context, jobID, filename string, reader io.Reader, size int64) (*models.Application, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.uploaded = data
	status := constants.StatusParsed
	if f.async {
		status = constants.StatusUploaded
	}
	return &models.Application{ApplicationID: "app-1", JobID: jobID, OriginalFilename: filename, Status: status}, nil
}

func (f *fakeService) ListApplications(ctx context.Context, jobID, status string) ([]models.Application, error) {
	f.lastStatus = status
	return []models.Application{{ApplicationID: "app-1", JobID: jobID, Status: constants.StatusParsed}}, nil
}

func (f *fakeService) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	if id == "app-1" {
		return &models.Application{ApplicationID: id, Status: constants.StatusParsed, DownloadURL: "http://minio/resumes/app-1.pdf"}, nil
	}
	return nil, &processor.ProcessError{Op: "GetApplication", ID: id, Err: processor.ErrApplicationNotFound}
}

func (f *fakeService) ParsePreview(ctx context.Context, filename string, reader io.Reader, size int64) (*parser.Result, error) {
	return &parser.Result{Profile: types.NewCandidateProfile(), Text: "jane", Pages: 1}, nil
}

func (f *fakeService) RankJob(ctx context.Context, jobID string) ([]processor.RankedApplication, error) {
	if f.rankErr != nil {
		return nil, f.rankErr
	}
	return f.rankings, nil
}

func (f *fakeService) RequestRanking(ctx context.Context, jobID string) (string, error) {
	return "msg-1", nil
}

func (f *fakeService) ListRankings(ctx context.Context, jobID string) ([]processor.RankedApplication, error) {
	return f.rankings, nil
}

func (f *fakeService) RankText(ctx context.Context, jd, resume string) processor.TextRanking {
	return processor.TextRanking{RankingResult: types.RankingResult{Score: 0.5, Highlights: []types.Highlight{}}, LegacyScore: 0.4}
}

func newServer(svc handler.Service, apiKeys []string, opts ...handler.Option) *server.Hertz {
	opts = append(opts, handler.WithLogger(log.New(io.Discard, "", 0)))
	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(h, handler.New(svc, opts...), apiKeys)
	return h
}

func jsonBody(t *testing.T, v interface{}) *ut.Body {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return &ut.Body{Body: bytes.NewReader(raw), Len: len(raw)}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*ut.Body, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &ut.Body{Body: bytes.NewReader(buf.Bytes()), Len: buf.Len()}, w.FormDataContentType()
}

func decode(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestHealth(t *testing.T) {
	h := newServer(&fakeService{}, []string{"secret"},
		handler.WithHealthCheck("redis", func(ctx context.Context) error { return nil }))
	w := ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/health", nil)
	resp := w.Result()
	assert.Equal(t, consts.StatusOK, resp.StatusCode(), "健康检查不需要API Key")
	assert.Equal(t, "ok", decode(t, resp.Body())["status"])

	h = newServer(&fakeService{}, nil,
		handler.WithHealthCheck("mysql", func(ctx context.Context) error { return errors.New("down") }))
	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, consts.StatusServiceUnavailable, w.Result().StatusCode())
}

func TestAPIKeyAuth(t *testing.T) {
	h := newServer(&fakeService{}, []string{"secret"})

	w := ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs", nil)
	assert.Equal(t, consts.StatusUnauthorized, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs", nil,
		ut.Header{Key: router.APIKeyHeader, Value: "wrong"})
	assert.Equal(t, consts.StatusUnauthorized, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs", nil,
		ut.Header{Key: router.APIKeyHeader, Value: "secret"})
	assert.Equal(t, consts.StatusOK, w.Result().StatusCode())
}

func TestJobRoutes(t *testing.T) {
	svc := &fakeService{}
	h := newServer(svc, nil)
	ctype := ut.Header{Key: "Content-Type", Value: "application/json"}

	w := ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs",
		jsonBody(t, map[string]interface{}{"job_title": "Go Engineer", "job_id": "client-id"}), ctype)
	resp := w.Result()
	require.Equal(t, consts.StatusCreated, resp.StatusCode(), string(resp.Body()))
	created := decode(t, resp.Body())
	assert.Equal(t, "job-1", created["job_id"], "客户端传入的ID应被忽略")
	assert.Equal(t, "Go Engineer", created["job_title"])

	w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs", jsonBody(t, map[string]string{}), ctype)
	assert.Equal(t, consts.StatusBadRequest, w.Result().StatusCode())

	raw := []byte("{not json")
	w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs", &ut.Body{Body: bytes.NewReader(raw), Len: len(raw)}, ctype)
	assert.Equal(t, consts.StatusBadRequest, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs/job-1", nil)
	assert.Equal(t, consts.StatusOK, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs/missing", nil)
	assert.Equal(t, consts.StatusNotFound, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs?offset=0&limit=5", nil)
	listed := decode(t, w.Result().Body())
	assert.Equal(t, []interface{}{}, listed["jobs"])
	assert.Equal(t, float64(5), listed["limit"])
}

func TestSubmitApplication(t *testing.T) {
	svc := &fakeService{async: true}
	h := newServer(svc, nil)

	body, ctype := multipartBody(t, "resume", "jane.txt", []byte("Jane Doe"))
	w := ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs/job-1/applications", body,
		ut.Header{Key: "Content-Type", Value: ctype})
	resp := w.Result()
	require.Equal(t, consts.StatusAccepted, resp.StatusCode(), string(resp.Body()))
	assert.Equal(t, "app-1", decode(t, resp.Body())["application_id"])
	assert.Equal(t, []byte("Jane Doe"), svc.uploaded)

	body, ctype = multipartBody(t, "file", "jane.txt", []byte("x"))
	w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs/job-1/applications", body,
		ut.Header{Key: "Content-Type", Value: ctype})
	assert.Equal(t, consts.StatusBadRequest, w.Result().StatusCode(), "字段名必须是 resume")

	tests := []struct {
		err  error
		want int
	}{
		{processor.ErrDuplicateResume, consts.StatusConflict},
		{processor.ErrUnsupportedFile, consts.StatusUnsupportedMediaType},
		{processor.ErrFileTooLarge, consts.StatusRequestEntityTooLarge},
		{processor.ErrStorageNotInit, consts.StatusServiceUnavailable},
		{errors.New("boom"), consts.StatusInternalServerError},
	}
	for _, tt := range tests {
		svc.submitErr = &processor.ProcessError{Op: "SubmitApplication", Err: tt.err}
		body, ctype = multipartBody(t, "resume", "jane.txt", []byte("x"))
		w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs/job-1/applications", body,
			ut.Header{Key: "Content-Type", Value: ctype})
		assert.Equal(t, tt.want, w.Result().StatusCode(), tt.err.Error())
	}
}

func TestApplicationQueries(t *testing.T) {
	svc := &fakeService{}
	h := newServer(svc, nil)

	w := ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs/job-1/applications?status=parsed", nil)
	resp := w.Result()
	assert.Equal(t, consts.StatusOK, resp.StatusCode())
	assert.Equal(t, float64(1), decode(t, resp.Body())["count"])
	assert.Equal(t, "parsed", svc.lastStatus)

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/applications/nope", nil)
	assert.Equal(t, consts.StatusNotFound, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/applications/app-1", nil)
	resp = w.Result()
	require.Equal(t, consts.StatusOK, resp.StatusCode())
	assert.Equal(t, "http://minio/resumes/app-1.pdf", decode(t, resp.Body())["download_url"])

	body, ctype := multipartBody(t, "resume", "jane.txt", []byte("Jane Doe"))
	w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/resumes/parse", body,
		ut.Header{Key: "Content-Type", Value: ctype})
	resp = w.Result()
	require.Equal(t, consts.StatusOK, resp.StatusCode())
	parsed := decode(t, resp.Body())
	assert.Contains(t, parsed, "profile")
	assert.Equal(t, "jane", parsed["text"])
}

func TestRankingRoutes(t *testing.T) {
	svc := &fakeService{rankings: []processor.RankedApplication{{
		ApplicationID: "app-1",
		CandidateName: "Jane Doe",
		RankingResult: types.RankingResult{Score: 0.8, Reasoning: "good", Highlights: []types.Highlight{}},
	}}}
	h := newServer(svc, nil)

	w := ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs/job-1/rank", nil)
	resp := w.Result()
	require.Equal(t, consts.StatusOK, resp.StatusCode())
	out := decode(t, resp.Body())
	assert.Equal(t, float64(1), out["count"])
	first := out["rankings"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 0.8, first["score"], "排序结果字段应平铺输出")
	assert.Equal(t, "Jane Doe", first["candidate_name"])

	w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs/job-1/rank?async=true", nil)
	resp = w.Result()
	assert.Equal(t, consts.StatusAccepted, resp.StatusCode())
	assert.Equal(t, "msg-1", decode(t, resp.Body())["message_id"])

	svc.rankErr = &processor.ProcessError{Op: "RankJob", Err: processor.ErrRankingInProgress}
	w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/jobs/job-1/rank", nil)
	assert.Equal(t, consts.StatusConflict, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/jobs/job-1/rankings", nil)
	assert.Equal(t, consts.StatusOK, w.Result().StatusCode())
}

func TestRankText(t *testing.T) {
	h := newServer(&fakeService{}, nil)
	ctype := ut.Header{Key: "Content-Type", Value: "application/json"}

	w := ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/rank",
		jsonBody(t, handler.RankTextRequest{JobDescription: "Go", Resume: "Go developer"}), ctype)
	resp := w.Result()
	require.Equal(t, consts.StatusOK, resp.StatusCode())
	out := decode(t, resp.Body())
	assert.Equal(t, 0.5, out["score"])
	assert.Equal(t, 0.4, out["legacy_score"])

	w = ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/rank",
		jsonBody(t, handler.RankTextRequest{JobDescription: "Go"}), ctype)
	assert.Equal(t, consts.StatusBadRequest, w.Result().StatusCode())
}
