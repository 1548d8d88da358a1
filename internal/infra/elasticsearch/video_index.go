package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"vidstream-go/internal/model"
	"vidstream-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const searchTimeout = 10 * time.Second

// VideoDoc videos 索引中的文档
type VideoDoc struct {
	ID           int64   `json:"id"`
	OwnerID      int64   `json:"owner_id"`
	OwnerName    string  `json:"owner_name"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Visibility   string  `json:"visibility"`
	IsPublished  bool    `json:"is_published"`
	ViewCount    int64   `json:"view_count"`
	LikeCount    int64   `json:"like_count"`
	CommentCount int64   `json:"comment_count"`
	HotScore     float64 `json:"hot_score"`
	Duration     float64 `json:"duration"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// hotScore 搜索结果相关度相同时的次级排序
func hotScore(view, like, comment int64) float64 {
	return (float64(view)*0.5 + float64(like)*2 + float64(comment)*1.5) / 1000
}

func newVideoDoc(v *model.Video, ownerName string) VideoDoc {
	return VideoDoc{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		OwnerName:    ownerName,
		Title:        v.Title,
		Description:  v.Description,
		Visibility:   v.Visibility,
		IsPublished:  v.IsPublished,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		HotScore:     hotScore(v.ViewCount, v.LikeCount, v.CommentCount),
		Duration:     v.Duration,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// VideoIndex 封装 videos 索引的读写
type VideoIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewVideoIndex(es *elasticsearch.Client, index string) *VideoIndex {
	return &VideoIndex{es: es, index: index}
}

// SyncVideo 写入或覆盖单个视频文档
func (x *VideoIndex) SyncVideo(ctx context.Context, v *model.Video, ownerName string) error {
	if x.es == nil {
		return ErrNotInitialized
	}
	body, err := json.Marshal(newVideoDoc(v, ownerName))
	if err != nil {
		return err
	}

	resp, err := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(v.ID, 10),
		Body:       bytes.NewReader(body),
	}.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("index video %d: %w", v.ID, err)
	}
	defer resp.Body.Close()
	if err := responseError("index", resp); err != nil {
		return err
	}

	logger.Debug("Video document indexed", zap.Int64("video_id", v.ID), zap.String("index", x.index))
	return nil
}

// DeleteVideo 删除视频文档，文档不存在视为成功
func (x *VideoIndex) DeleteVideo(ctx context.Context, videoID int64) error {
	if x.es == nil {
		return ErrNotInitialized
	}
	resp, err := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(videoID, 10)}.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("delete video %d: %w", videoID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError("delete", resp)
}

// SearchVideoIDs 按相关度返回命中的视频 ID 与总数
func (x *VideoIndex) SearchVideoIDs(ctx context.Context, q string, from, size int) ([]int64, int64, error) {
	if x.es == nil {
		return nil, 0, ErrNotInitialized
	}
	body, err := json.Marshal(buildSearchQuery(q, from, size))
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	resp, err := esapi.SearchRequest{Index: []string{x.index}, Body: bytes.NewReader(body)}.Do(ctx, x.es)
	if err != nil {
		return nil, 0, fmt.Errorf("search videos: %w", err)
	}
	defer resp.Body.Close()
	if err := responseError("search", resp); err != nil {
		return nil, 0, err
	}
	return parseSearchHits(resp.Body)
}

// BulkSyncVideos 批量写入视频文档，返回逐条成功与失败数
func (x *VideoIndex) BulkSyncVideos(ctx context.Context, videos []model.Video, ownerNames map[int64]string) (success, failed int, err error) {
	if len(videos) == 0 {
		return 0, 0, nil
	}
	if x.es == nil {
		return 0, len(videos), ErrNotInitialized
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range videos {
		v := &videos[i]
		meta := bulkAction{Index: bulkTarget{ID: strconv.FormatInt(v.ID, 10)}}
		if err := enc.Encode(meta); err != nil {
			return 0, len(videos), err
		}
		if err := enc.Encode(newVideoDoc(v, ownerNames[v.OwnerID])); err != nil {
			return 0, len(videos), err
		}
	}

	resp, err := esapi.BulkRequest{Index: x.index, Body: &buf}.Do(ctx, x.es)
	if err != nil {
		return 0, len(videos), fmt.Errorf("bulk index videos: %w", err)
	}
	defer resp.Body.Close()
	if err := responseError("bulk", resp); err != nil {
		return 0, len(videos), err
	}

	var result struct {
		Items []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, len(videos), fmt.Errorf("decode bulk response: %w", err)
	}
	for _, item := range result.Items {
		for _, op := range item {
			if op.Status >= 200 && op.Status < 300 {
				success++
			} else {
				failed++
			}
		}
	}

	logger.Info("Bulk video sync finished",
		zap.String("index", x.index), zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}

type bulkTarget struct {
	ID string `json:"_id"`
}

type bulkAction struct {
	Index bulkTarget `json:"index"`
}

type searchQuery struct {
	From   int              `json:"from"`
	Size   int              `json:"size"`
	Source []string         `json:"_source"`
	Query  map[string]any   `json:"query"`
	Sort   []map[string]any `json:"sort"`
}

// buildSearchQuery 只检索公开且已发布的视频
func buildSearchQuery(q string, from, size int) searchQuery {
	return searchQuery{
		From:   from,
		Size:   size,
		Source: []string{"id"},
		Query: map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"is_published": true}},
					map[string]any{"term": map[string]any{"visibility": model.VisibilityPublic}},
				},
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^3", "owner_name^2", "description"},
						"type":   "best_fields",
					},
				},
			},
		},
		Sort: []map[string]any{
			{"_score": "desc"},
			{"hot_score": "desc"},
		},
	}
}

func parseSearchHits(body io.Reader) ([]int64, int64, error) {
	var result struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source VideoDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]int64, len(result.Hits.Hits))
	for i, h := range result.Hits.Hits {
		ids[i] = h.Source.ID
	}
	return ids, result.Hits.Total.Value, nil
}
