package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"resume-ranker-go/internal/bootstrap"
	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/types"
)

// rankOutput rank 命令的输出
type rankOutput struct {
	types.RankingResult
	LegacyScore float64 `json:"legacy_score"`
	Embedder    string  `json:"embedder"`
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return cfg, nil
}

// openOutput 返回输出目标，未指定文件时为标准输出
func openOutput() (io.Writer, func() error, error) {
	if *outputPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(*outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("创建输出文件失败: %w", err)
	}
	return f, f.Close, nil
}

func writeJSON(v interface{}) error {
	w, closeFn, err := openOutput()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// handleInitCommand 生成一份带默认值的示例配置
func handleInitCommand() error {
	path := *outputPath
	if path == "" {
		path = "config.yaml"
	}
	if err := config.CreateSampleConfig(path); err != nil {
		return err
	}
	fmt.Printf("示例配置已写入 %s\n", path)
	return nil
}

// handleParseCommand 解析单份简历，输出结构化画像
func handleParseCommand() error {
	if *filePath == "" {
		return errors.New("必须通过 --file 指定简历文件")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	p, err := bootstrap.NewParser(ctx, cfg.Parser)
	if err != nil {
		return err
	}
	res, err := p.ParseFile(ctx, *filePath)
	if err != nil {
		return fmt.Errorf("解析 %s 失败: %w", *filePath, err)
	}
	return writeJSON(res.Profile)
}

// handleRankCommand 对一份JD和一份简历打分，输出带解释的排序结果
func handleRankCommand() error {
	if *jdPath == "" || *resumePath == "" {
		return errors.New("必须同时指定 --jd 和 --resume")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jd, err := os.ReadFile(*jdPath)
	if err != nil {
		return fmt.Errorf("读取岗位描述失败: %w", err)
	}
	p, err := bootstrap.NewParser(ctx, cfg.Parser)
	if err != nil {
		return err
	}
	res, err := p.ParseFile(ctx, *resumePath)
	if err != nil {
		return fmt.Errorf("解析 %s 失败: %w", *resumePath, err)
	}

	engine, err := bootstrap.NewEngine(ctx, cfg, nil)
	if err != nil {
		return err
	}
	return writeJSON(rankOutput{
		RankingResult: engine.RankWithReasoning(ctx, string(jd), res.Text),
		LegacyScore:   engine.Rank(ctx, string(jd), res.Text),
		Embedder:      engine.EmbedderName(),
	})
}
