package storage

import (
	"time"

	"github.com/google/uuid"
)

// ResumeUploadedMessage 简历上传完成，等待解析
type ResumeUploadedMessage struct {
	MessageID        string    `json:"message_id"`
	ApplicationID    string    `json:"application_id"`
	JobID            string    `json:"job_id"`
	OriginalFilename string    `json:"original_filename"`
	ObjectKey        string    `json:"object_key"` // MinIO中的对象键
	FileMD5          string    `json:"file_md5"`   // 解析失败时用于回滚去重记录
	SubmittedAt      time.Time `json:"submitted_at"`
}

// NewResumeUploadedMessage 生成带消息ID的上传消息
func NewResumeUploadedMessage(applicationID, jobID, filename, objectKey, md5Hex string) ResumeUploadedMessage {
	return ResumeUploadedMessage{
		MessageID:        uuid.NewString(),
		ApplicationID:    applicationID,
		JobID:            jobID,
		OriginalFilename: filename,
		ObjectKey:        objectKey,
		FileMD5:          md5Hex,
		SubmittedAt:      time.Now(),
	}
}

// JobRankRequestedMessage 请求对岗位下所有已解析简历重新排序
type JobRankRequestedMessage struct {
	MessageID   string    `json:"message_id"`
	JobID       string    `json:"job_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewJobRankRequestedMessage 生成带消息ID的排序请求
func NewJobRankRequestedMessage(jobID string) JobRankRequestedMessage {
	return JobRankRequestedMessage{
		MessageID:   uuid.NewString(),
		JobID:       jobID,
		RequestedAt: time.Now(),
	}
}
