package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidstream-go/internal/config"
	"vidstream-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

var client *elasticsearch.Client

// ErrNotInitialized 客户端未初始化
var ErrNotInitialized = errors.New("elasticsearch client not initialized")

// Init 初始化 Elasticsearch 客户端并探测连通性
func Init(cfg *config.ElasticsearchConfig) error {
	hosts := normalizeHosts(cfg.Hosts)
	if len(hosts) == 0 {
		return fmt.Errorf("elasticsearch hosts is empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: hosts,
		RetryOnStatus: []int{
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout,
		},
		MaxRetries:   3,
		RetryBackoff: func(i int) time.Duration { return time.Duration(i) * 500 * time.Millisecond },
	})
	if err != nil {
		return fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := esapi.PingRequest{}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	defer resp.Body.Close()
	if err := responseError("ping", resp); err != nil {
		return err
	}

	client = es
	logger.Info("Elasticsearch connected", zap.Strings("hosts", hosts))
	return nil
}

// Get 获取 ES 客户端，未初始化时为 nil
func Get() *elasticsearch.Client {
	return client
}

// Close 释放客户端
func Close() error {
	client = nil
	logger.Info("Elasticsearch client closed")
	return nil
}

func normalizeHosts(raw []string) []string {
	hosts := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
			h = "http://" + h
		}
		hosts = append(hosts, strings.TrimRight(h, "/"))
	}
	return hosts
}

// responseError 把 ES 的错误响应转成 error，成功时返回 nil
func responseError(op string, resp *esapi.Response) error {
	if !resp.IsError() {
		return nil
	}
	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &body) == nil && body.Error.Type != "" {
		return fmt.Errorf("elasticsearch %s: %d %s: %s", op, resp.StatusCode, body.Error.Type, body.Error.Reason)
	}
	return fmt.Errorf("elasticsearch %s: %d %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
}
