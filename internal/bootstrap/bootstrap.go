// Package bootstrap 按配置组装解析器、排序引擎和业务服务，供服务端和命令行共用
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/rs/zerolog"

	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/embedding"
	"resume-ranker-go/internal/logger"
	"resume-ranker-go/internal/parser"
	"resume-ranker-go/internal/processor"
	"resume-ranker-go/internal/ranking"
	"resume-ranker-go/internal/storage"
)

// NewParser 创建简历解析器
func NewParser(ctx context.Context, cfg config.ParserConfig) (*parser.ResumeParser, error) {
	docs, err := parser.NewDocumentExtractor(ctx, cfg, logger.Std("[PDFExtractor] "))
	if err != nil {
		return nil, fmt.Errorf("初始化文档提取器失败: %w", err)
	}
	return parser.NewResumeParser(docs,
		parser.WithLogger(logger.Std("[ResumeParser] ")),
		parser.WithContinueAfterResponsibilities(cfg.ContinueAfterResponsibilities),
	), nil
}

// EngineOptions 把排序配置转换成引擎选项。配置了同义词文件时加载它
func EngineOptions(cfg config.RankingConfig, l *log.Logger) ([]ranking.Option, error) {
	opts := []ranking.Option{
		ranking.WithLogger(l),
		ranking.WithWeights(ranking.Weights{
			Semantic:    cfg.Weights.Semantic,
			TFIDF:       cfg.Weights.TFIDF,
			TermOverlap: cfg.Weights.TermOverlap,
		}),
		ranking.WithScale(ranking.Scale{Min: cfg.Scale.Min, Max: cfg.Scale.Max, Power: cfg.Scale.Power}),
		ranking.WithSignalTimeout(config.GetDuration(cfg.SignalTimeout, ranking.DefaultSignalTimeout)),
		ranking.WithWorkers(cfg.Workers),
		ranking.WithExpansionLimit(cfg.ExpansionLimit),
	}
	if cfg.SynonymsFile != "" {
		thesaurus, err := ranking.LoadThesaurus(cfg.SynonymsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ranking.WithSynonyms(thesaurus))
	}
	return opts, nil
}

// NewEngine 创建排序引擎。cache 非 nil 时远程向量结果写入 Redis
func NewEngine(ctx context.Context, cfg *config.Config, cache embedding.VectorCache) (*ranking.Engine, error) {
	embedder, err := embedding.New(ctx, cfg.Embedding, cache, logger.Std("[Embedding] "))
	if err != nil {
		return nil, fmt.Errorf("初始化向量化服务失败: %w", err)
	}
	opts, err := EngineOptions(cfg.Ranking, logger.Std("[RankingEngine] "))
	if err != nil {
		return nil, err
	}
	return ranking.NewEngine(embedder, opts...), nil
}

// NewService 用已初始化的存储组件组装业务服务。MySQL 必须可用
func NewService(ctx context.Context, cfg *config.Config, store *storage.Storage, zl *zerolog.Logger) (*processor.Service, error) {
	if store == nil || store.MySQL == nil {
		return nil, fmt.Errorf("MySQL 不可用: %w", processor.ErrStorageNotInit)
	}

	var (
		cache       processor.Cache
		vectorCache embedding.VectorCache
		objects     processor.ObjectStore
		publisher   processor.Publisher
	)
	// 接口变量只在组件存在时赋值，避免出现包着 nil 指针的非 nil 接口
	if store.Redis != nil {
		cache = store.Redis
		vectorCache = store.Redis
	}
	if store.MinIO != nil {
		objects = store.MinIO
	}
	if store.RabbitMQ != nil {
		publisher = store.RabbitMQ
	}

	resumeParser, err := NewParser(ctx, cfg.Parser)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(ctx, cfg, vectorCache)
	if err != nil {
		return nil, err
	}

	return processor.NewService(store.MySQL, objects, cache, publisher, resumeParser, engine,
		processor.WithLogger(zl),
		processor.WithMaxFileSize(cfg.Parser.MaxFileSize()),
		processor.WithAllowedExtensions(cfg.Parser.AllowedExtensions),
		processor.WithTopology(processor.Topology{
			Exchange:           cfg.RabbitMQ.Exchange,
			UploadedRoutingKey: cfg.RabbitMQ.UploadedRoutingKey,
			RankRoutingKey:     cfg.RabbitMQ.RankRoutingKey,
		}),
	), nil
}
