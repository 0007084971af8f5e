package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"resume-ranker-go/internal/logger"
	"resume-ranker-go/internal/storage"
	"resume-ranker-go/internal/storage/models"
)

// exportRow 导出的一行投递记录
type exportRow struct {
	ApplicationID    string   `json:"application_id"`
	CandidateName    string   `json:"candidate_name"`
	CandidateEmail   string   `json:"candidate_email"`
	CandidatePhone   string   `json:"candidate_phone"`
	OriginalFilename string   `json:"original_filename"`
	Status           string   `json:"status"`
	FailureReason    string   `json:"failure_reason,omitempty"`
	Score            *float64 `json:"score"` // 未排序时为 null
	ParsedAt         string   `json:"parsed_at,omitempty"`
}

var csvHeader = []string{
	"application_id", "candidate_name", "candidate_email", "candidate_phone",
	"original_filename", "status", "failure_reason", "score", "parsed_at",
}

// buildExportRows 合并投递和排序结果，已排序的按分数降序排在前面
func buildExportRows(apps []models.Application, rankings []models.Ranking) []exportRow {
	scores := make(map[string]float64, len(rankings))
	for _, r := range rankings {
		scores[r.ApplicationID] = r.Score
	}

	rows := make([]exportRow, 0, len(apps))
	for _, app := range apps {
		row := exportRow{
			ApplicationID:    app.ApplicationID,
			CandidateName:    app.CandidateName,
			CandidateEmail:   app.CandidateEmail,
			CandidatePhone:   app.CandidatePhone,
			OriginalFilename: app.OriginalFilename,
			Status:           app.Status,
			FailureReason:    app.FailureReason,
		}
		if s, ok := scores[app.ApplicationID]; ok {
			row.Score = &s
		}
		if app.ParsedAt != nil {
			row.ParsedAt = app.ParsedAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Score, rows[j].Score
		switch {
		case a != nil && b != nil:
			return *a > *b
		default:
			return a != nil && b == nil
		}
	})
	return rows
}

func writeCSV(w io.Writer, rows []exportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		score := ""
		if r.Score != nil {
			score = strconv.FormatFloat(*r.Score, 'f', 4, 64)
		}
		record := []string{
			r.ApplicationID, r.CandidateName, r.CandidateEmail, r.CandidatePhone,
			r.OriginalFilename, r.Status, r.FailureReason, score, r.ParsedAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func openMySQL() (*storage.MySQL, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := storage.NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}
	return db, nil
}

// handleExportCommand 导出岗位下的投递及其分数
func handleExportCommand() error {
	if *jobID == "" {
		return errors.New("必须通过 --job 指定岗位ID")
	}
	if *format != "json" && *format != "csv" {
		return fmt.Errorf("不支持的导出格式 %q", *format)
	}
	db, err := openMySQL()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := db.GetJob(ctx, *jobID); err != nil {
		return fmt.Errorf("读取岗位 %s 失败: %w", *jobID, err)
	}
	apps, err := db.ListApplications(ctx, *jobID, "")
	if err != nil {
		return err
	}
	rankings, err := db.ListRankings(ctx, *jobID)
	if err != nil {
		return err
	}
	rows := buildExportRows(apps, rankings)

	if *format == "json" {
		return writeJSON(rows)
	}
	w, closeFn, err := openOutput()
	if err != nil {
		return err
	}
	if err := writeCSV(w, rows); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// handleCheckCommand 列出岗位下的投递，并检查原始文件是否仍在对象存储中
func handleCheckCommand() error {
	if *jobID == "" {
		return errors.New("必须通过 --job 指定岗位ID")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.NewMySQL(&cfg.MySQL)
	if err != nil {
		return fmt.Errorf("连接MySQL失败: %w", err)
	}
	defer db.Close()
	objects, err := storage.NewMinIO(&cfg.MinIO, logger.Std("[MinIOStorage] "))
	if err != nil {
		return fmt.Errorf("连接MinIO失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	apps, err := db.ListApplications(ctx, *jobID, "")
	if err != nil {
		return err
	}
	missing := 0
	for _, app := range apps {
		state := "ok"
		exists, err := objects.ObjectExists(ctx, app.ObjectKey)
		switch {
		case err != nil:
			state = "error: " + err.Error()
		case !exists:
			state = "missing"
			missing++
		}
		fmt.Printf("%s  %-8s  %-30s  %s\n", app.ApplicationID, app.Status, app.OriginalFilename, state)
	}
	fmt.Printf("\n共 %d 份投递，%d 份原件缺失\n", len(apps), missing)
	return nil
}

// handleResetCommand 清空岗位、投递和排序结果，需要 --yes 确认
func handleResetCommand() error {
	if !*assumeYes {
		return errors.New("reset 会删除所有岗位、投递和排序结果，请加 --yes 确认")
	}
	db, err := openMySQL()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	counts, err := db.ResetAll(ctx)
	if err != nil {
		return fmt.Errorf("清空数据失败: %w", err)
	}
	fmt.Fprintf(os.Stdout, "已删除 %d 个岗位，%d 份投递，%d 条排序结果\n", counts.Jobs, counts.Applications, counts.Rankings)
	return nil
}
