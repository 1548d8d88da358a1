package elasticsearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"vidstream-go/internal/config"
	"vidstream-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const defaultVideosIndex = "videos"

// VideosIndexName 返回 videos 索引名
func VideosIndexName(cfg *config.ElasticsearchConfig) string {
	if name := strings.TrimSpace(cfg.Index["videos"]); name != "" {
		return name
	}
	return defaultVideosIndex
}

// videosMapping 标题与描述使用 IK 中文分词；只有公开且已发布的视频会被搜到
const videosMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"dynamic": "strict",
		"properties": {
			"id": {"type": "long"},
			"owner_id": {"type": "long"},
			"owner_name": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 64}}
			},
			"title": {
				"type": "text",
				"analyzer": "ik_max_word",
				"search_analyzer": "ik_smart",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
			},
			"description": {
				"type": "text",
				"analyzer": "ik_max_word",
				"search_analyzer": "ik_smart"
			},
			"visibility": {"type": "keyword"},
			"is_published": {"type": "boolean"},
			"view_count": {"type": "long"},
			"like_count": {"type": "long"},
			"comment_count": {"type": "long"},
			"hot_score": {"type": "float"},
			"duration": {"type": "float"},
			"created_at": {"type": "date"},
			"updated_at": {"type": "date"}
		}
	}
}`

// Ensure 索引不存在时按 videosMapping 创建
func (x *VideoIndex) Ensure(ctx context.Context) error {
	if x.es == nil {
		return ErrNotInitialized
	}

	resp, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		logger.Info("Elasticsearch videos index already exists", zap.String("index", x.index))
		return nil
	}

	resp, err = esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(videosMapping)}.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()
	if err := responseError("create index", resp); err != nil {
		return err
	}

	logger.Info("Elasticsearch videos index created", zap.String("index", x.index))
	return nil
}
