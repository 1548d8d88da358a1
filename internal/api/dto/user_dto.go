package dto

// ChannelProfile 频道主页信息
type ChannelProfile struct {
	UserInfo
	IsSubscribed bool  `json:"is_subscribed"`
	VideoCount   int64 `json:"video_count"`
}

// UserBrief 列表中嵌套的用户简要信息
type UserBrief struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Avatar   *string `json:"avatar"`
}

// PaginationMeta 分页元数据，内嵌到各列表数据中
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

// NewPaginationMeta 计算总页数
func NewPaginationMeta(total int64, page, pageSize int) PaginationMeta {
	var totalPages int64
	if pageSize > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return PaginationMeta{Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}
