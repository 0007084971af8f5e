package processor

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"resume-ranker-go/internal/constants"
)

// Topology 消息发布的目标
type Topology struct {
	Exchange           string
	UploadedRoutingKey string
	RankRoutingKey     string
}

type options struct {
	logger            *zerolog.Logger
	maxFileSize       int64
	allowedExtensions map[string]bool
	parserVersion     string
	rankLockTTL       time.Duration
	downloadURLExpiry time.Duration
	topology          Topology
}

// Option 服务选项
type Option func(*options)

func defaultOptions() *options {
	nop := zerolog.Nop()
	return &options{
		logger:      &nop,
		maxFileSize: 10 << 20,
		allowedExtensions: map[string]bool{
			".pdf":  true,
			".docx": true,
			".txt":  true,
		},
		parserVersion: constants.ParserVersion,
		rankLockTTL:       5 * time.Minute,
		downloadURLExpiry: 15 * time.Minute,
		topology: Topology{
			Exchange:           "resume.ranker.exchange",
			UploadedRoutingKey: "resume.uploaded",
			RankRoutingKey:     "job.rank.requested",
		},
	}
}

// WithLogger 设置日志
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxFileSize 上传文件大小上限（字节），<=0 时不限制
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithAllowedExtensions 允许上传的扩展名，空列表时保留默认值
func WithAllowedExtensions(exts []string) Option {
	return func(o *options) {
		if len(exts) == 0 {
			return
		}
		o.allowedExtensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			o.allowedExtensions[ext] = true
		}
	}
}

// WithParserVersion 写入投递记录的解析器版本
func WithParserVersion(v string) Option {
	return func(o *options) { o.parserVersion = v }
}

// WithRankLockTTL 排序锁的过期时间
func WithRankLockTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.rankLockTTL = d
		}
	}
}

// WithDownloadURLExpiry 原件下载链接的有效期，<=0 时不生成链接
func WithDownloadURLExpiry(d time.Duration) Option {
	return func(o *options) { o.downloadURLExpiry = d }
}

// WithTopology 设置消息的 exchange 与路由键
func WithTopology(t Topology) Option {
	return func(o *options) { o.topology = t }
}
