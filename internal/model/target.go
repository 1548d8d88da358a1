package model

// TargetKind 关系/日志指向的实体类型
type TargetKind string

const (
	TargetVideo    TargetKind = "video"
	TargetComment  TargetKind = "comment"
	TargetTweet    TargetKind = "tweet"
	TargetChannel  TargetKind = "channel"
	TargetPlaylist TargetKind = "playlist"
	TargetUser     TargetKind = "user"
)

// Valid 是否为已知类型
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet, TargetChannel, TargetPlaylist, TargetUser:
		return true
	}
	return false
}

// Likeable 是否可以被点赞
func (k TargetKind) Likeable() bool {
	return k == TargetVideo || k == TargetComment || k == TargetTweet
}

// 用户角色
const (
	RoleUser    = "user"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

// 可见性
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityPrivate  = "private"
)
