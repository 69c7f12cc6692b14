package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 头像上传
const (
	MimeImage          = "image/"
	MaxPhotoSize int64 = 5 << 20
)

var (
	AllowedPhotoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// 字段长度限制
const (
	MaxSkillNameLength        = 30
	MaxSkillDescriptionLength = 200
	MaxSwapMessageLength      = 300
	MaxFeedbackCommentLength  = 500
)

const (
	MinRating = 1
	MaxRating = 5
)
