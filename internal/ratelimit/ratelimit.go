// Package ratelimit 按动作和用户角色做固定窗口限流，计数存放在 Redis
package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"vidstream-go/internal/config"
	"vidstream-go/internal/model"

	"github.com/redis/go-redis/v9"
)

// Action 需要限流的动作
type Action string

const (
	PublishVideo       Action = "publish_video"
	CreateTweet        Action = "create_tweet"
	UpdateTweet        Action = "update_tweet"
	ToggleLike         Action = "toggle_like"
	Comment            Action = "comment"
	ToggleSubscription Action = "toggle_subscription"
	UpdateVideo        Action = "update_video"
	TogglePublish      Action = "toggle_publish"
	UpdatePlaylist     Action = "update_playlist"
	Login              Action = "login"
)

// Rule 窗口内普通用户与会员各自的上限
type Rule struct {
	Window  time.Duration
	Normal  int
	Premium int
}

var defaultRules = map[Action]Rule{
	PublishVideo:       {Window: 10 * time.Minute, Normal: 3, Premium: 10},
	CreateTweet:        {Window: 5 * time.Minute, Normal: 5, Premium: 15},
	UpdateTweet:        {Window: time.Minute, Normal: 5, Premium: 5},
	ToggleLike:         {Window: time.Minute, Normal: 30, Premium: 60},
	Comment:            {Window: 2 * time.Minute, Normal: 10, Premium: 30},
	ToggleSubscription: {Window: 10 * time.Second, Normal: 3, Premium: 3},
	UpdateVideo:        {Window: time.Minute, Normal: 5, Premium: 5},
	TogglePublish:      {Window: 10 * time.Minute, Normal: 10, Premium: 10},
	UpdatePlaylist:     {Window: time.Minute, Normal: 5, Premium: 5},
	Login:              {Window: 10 * time.Minute, Normal: 3, Premium: 10},
}

// Decision 一次限流判断的结果
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter 单个动作的限流器
type Limiter struct {
	client *redis.Client
	action Action
	rule   Rule
}

// Rule 返回生效的规则
func (l *Limiter) Rule() Rule {
	return l.rule
}

// Allow 计数一次并判断是否超限；管理员不计数
// Redis 出错时返回 error，由调用方决定是否放行
func (l *Limiter) Allow(ctx context.Context, role, subject string) (Decision, error) {
	if role == model.RoleAdmin {
		return Decision{Allowed: true, Limit: -1, Remaining: -1}, nil
	}

	limit := l.rule.Normal
	if role == model.RolePremium {
		limit = l.rule.Premium
	}

	key := fmt.Sprintf("rl:%s:%s", l.action, subject)
	cnt, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, err
	}
	if cnt == 1 {
		if err := l.client.Expire(ctx, key, l.rule.Window).Err(); err != nil {
			return Decision{}, err
		}
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return Decision{}, err
	}
	if ttl < 0 {
		// 过期时间丢失，补上，避免计数永久保留
		l.client.Expire(ctx, key, l.rule.Window)
		ttl = l.rule.Window
	}

	remaining := limit - int(cnt)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    cnt <= int64(limit),
		Limit:      limit,
		Remaining:  remaining,
		ResetAfter: ttl,
	}, nil
}

// Registry 启动时解析好的全部限流器
type Registry struct {
	enabled  bool
	limiters map[Action]*Limiter
}

// NewRegistry 合并内置规则与配置覆盖，配置中出现未知动作时报错
func NewRegistry(client *redis.Client, cfg config.RateLimitConfig) (*Registry, error) {
	rules := make(map[Action]Rule, len(defaultRules))
	for a, r := range defaultRules {
		rules[a] = r
	}

	var unknown []string
	for name, r := range cfg.Actions {
		a := Action(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := defaultRules[a]; !ok {
			unknown = append(unknown, name)
			continue
		}
		rules[a] = Rule{Window: r.Window, Normal: r.Normal, Premium: r.Premium}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown rate limit actions: %s", strings.Join(unknown, ", "))
	}

	reg := &Registry{enabled: cfg.Enabled, limiters: make(map[Action]*Limiter, len(rules))}
	for a, r := range rules {
		if r.Window <= 0 || r.Normal <= 0 || r.Premium <= 0 {
			return nil, fmt.Errorf("rate limit %s: window and limits must be positive", a)
		}
		reg.limiters[a] = &Limiter{client: client, action: a, rule: r}
	}
	return reg, nil
}

// Enabled 是否启用限流
func (r *Registry) Enabled() bool {
	return r != nil && r.enabled
}

// Limiter 获取动作对应的限流器，动作未注册时 panic（路由配置错误）
func (r *Registry) Limiter(a Action) *Limiter {
	l, ok := r.limiters[a]
	if !ok {
		panic(fmt.Sprintf("ratelimit: action %q not registered", a))
	}
	return l
}
