package service

import (
	"context"
	"errors"
	"strings"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
	"vidstream-go/pkg/logger"

	"go.uber.org/zap"
)

// VideoSearcher 搜索引擎查询，返回按相关度排序的视频 ID
type VideoSearcher interface {
	SearchVideoIDs(ctx context.Context, q string, from, size int) ([]int64, int64, error)
}

const (
	SourceElasticsearch = "elasticsearch"
	SourceDatabase      = "database"
)

// BulkIndexer 批量写入索引
type BulkIndexer interface {
	BulkSyncVideos(ctx context.Context, videos []model.Video, ownerNames map[int64]string) (success, failed int, err error)
}

const reindexBatchSize = 500

type SearchService struct {
	videoRepo *repository.VideoRepository
	searcher  VideoSearcher
	bulk      BulkIndexer
}

// NewSearchService searcher 为空时直接查数据库
func NewSearchService(store *repository.Store, searcher VideoSearcher, bulk BulkIndexer) *SearchService {
	return &SearchService{videoRepo: store.Repos().Videos, searcher: searcher, bulk: bulk}
}

// SearchVideos 搜索视频（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchVideos(ctx context.Context, req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}
	q := strings.TrimSpace(req.Q)
	if q == "" {
		return nil, ErrEmptyContent
	}

	if s.searcher != nil {
		data, err := s.searchFromIndex(ctx, q, req.Page, req.PageSize)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.String("q", q), zap.Error(err))
	}
	return s.searchFromDB(ctx, q, req.Page, req.PageSize)
}

func (s *SearchService) searchFromIndex(ctx context.Context, q string, page, pageSize int) (*dto.SearchVideoData, error) {
	ids, total, err := s.searcher.SearchVideoIDs(ctx, q, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	videos, err := s.videoRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &dto.SearchVideoData{
		Videos:         toVideoInfos(videos),
		Source:         SourceElasticsearch,
		PaginationMeta: dto.NewPaginationMeta(total, page, pageSize),
	}, nil
}

func (s *SearchService) searchFromDB(ctx context.Context, q string, page, pageSize int) (*dto.SearchVideoData, error) {
	videos, total, err := s.videoRepo.SearchByTitle(ctx, q, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.SearchVideoData{
		Videos:         toVideoInfos(videos),
		Source:         SourceDatabase,
		PaginationMeta: dto.NewPaginationMeta(total, page, pageSize),
	}, nil
}

// ErrSearchIndexUnavailable 搜索引擎未启用
var ErrSearchIndexUnavailable = errors.New("搜索引擎不可用")

// Reindex 把所有可搜索的视频分批同步到搜索引擎
func (s *SearchService) Reindex(ctx context.Context) (success, failed int, err error) {
	if s.bulk == nil {
		return 0, 0, ErrSearchIndexUnavailable
	}

	var afterID int64
	for {
		videos, err := s.videoRepo.ListIndexable(ctx, afterID, reindexBatchSize)
		if err != nil {
			return success, failed, err
		}
		if len(videos) == 0 {
			break
		}

		ownerNames := make(map[int64]string, len(videos))
		for i := range videos {
			if videos[i].Owner != nil {
				ownerNames[videos[i].OwnerID] = videos[i].Owner.UserName
			}
		}
		ok, bad, err := s.bulk.BulkSyncVideos(ctx, videos, ownerNames)
		success += ok
		failed += bad
		if err != nil {
			return success, failed, err
		}

		afterID = videos[len(videos)-1].ID
		if len(videos) < reindexBatchSize {
			break
		}
	}

	logger.Info("Search index rebuilt", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}
