package constants

// 简历投递状态
const (
	StatusUploaded = "uploaded" // 已上传，等待解析
	StatusParsed   = "parsed"   // 解析完成，可参与排序
	StatusFailed   = "failed"   // 解析失败，见 failure_reason
)

// 岗位状态
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

const (
	// ParserVersion 写入投递记录，便于规则调整后重新解析
	ParserVersion = "heuristic-1.0"

	// ConsumerParse / ConsumerRank consumer_workers 中的键
	ConsumerParse = "parse"
	ConsumerRank  = "rank"
)
