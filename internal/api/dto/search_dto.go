package dto

// SearchVideoRequest 搜索请求参数
type SearchVideoRequest struct {
	Q        string `form:"q" binding:"required,min=1,max=100"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SearchVideoData 搜索结果，Source 标明结果来自 elasticsearch 还是 database
type SearchVideoData struct {
	Videos []VideoInfo `json:"videos"`
	Source string      `json:"source"`
	PaginationMeta
}
