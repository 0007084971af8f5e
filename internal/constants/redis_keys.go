package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// EmbeddingModulePrefix 向量模块
	EmbeddingModulePrefix = "embedding"
	// RankModulePrefix 排序模块
	RankModulePrefix = "rank"
	// FileModulePrefix 文件模块
	FileModulePrefix = "file"

	// EntityVector 向量实体
	EntityVector = "vector"
	// EntityResult 排序结果实体
	EntityResult = "result"
	// EntityLock 分布式锁实体
	EntityLock = "lock"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityMD5ToUUID MD5到UUID的映射实体
	EntityMD5ToUUID = "md5_to_uuid"

	// KeyEmbeddingVector 文本向量缓存 (STRING, JSON数组)
	// 格式: app:embedding:vector:{embedder}:{md5}
	KeyEmbeddingVector = AppPrefix + ":" + EmbeddingModulePrefix + ":" + EntityVector + ":%s"

	// KeyJobRankingResult 岗位排序结果缓存 (STRING, JSON)
	// 格式: app:rank:result:{jobID}
	KeyJobRankingResult = AppPrefix + ":" + RankModulePrefix + ":" + EntityResult + ":%s"

	// KeyJobRankLock 同一岗位同时只跑一次批量排序 (STRING)
	// 格式: app:rank:lock:{jobID}
	KeyJobRankLock = AppPrefix + ":" + RankModulePrefix + ":" + EntityLock + ":%s"

	// KeyFileMD5Set 每个岗位的简历文件MD5集合，用于投递去重 (SET)
	// 格式: app:file:dedup_set:{jobID}
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":%s"

	// KeyFileMD5ToApplicationID MD5到投递ID的映射 (STRING)
	// 格式: app:file:md5_to_uuid:{jobID}:{md5}
	KeyFileMD5ToApplicationID = AppPrefix + ":" + FileModulePrefix + ":" + EntityMD5ToUUID + ":%s:%s"
)
