package service

import (
	"errors"
	"fmt"

	"vidstream-go/internal/repository"
)

// Kind 错误分类，HTTP 层据此选择状态码
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// 参数错误
var (
	ErrInvalidID           = errors.New("无效的ID")
	ErrInvalidTargetKind   = errors.New("不支持的目标类型")
	ErrEmptyContent        = errors.New("内容不能为空")
	ErrNoFieldsToUpdate    = errors.New("没有需要更新的字段")
	ErrCannotSubscribeSelf = errors.New("不能订阅自己的频道")
	ErrMediaNotFound       = errors.New("媒体文件不存在，请先上传")
)

// 不存在
var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrChannelNotFound  = errors.New("频道不存在")
	ErrVideoNotFound    = errors.New("视频不存在")
	ErrCommentNotFound  = errors.New("评论不存在")
	ErrTweetNotFound    = errors.New("动态不存在")
	ErrPlaylistNotFound = errors.New("播放列表不存在")
)

// 无权限
var (
	ErrVideoNoPermission    = errors.New("没有权限操作该视频")
	ErrCommentNoPermission  = errors.New("没有权限操作该评论")
	ErrTweetNoPermission    = errors.New("没有权限操作该动态")
	ErrPlaylistNoPermission = errors.New("没有权限操作该播放列表")
	ErrChannelNoPermission  = errors.New("只能查看自己频道的视频")
)

// 认证
var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// 冲突
var (
	ErrConflict             = errors.New("操作冲突，请重试")
	ErrUserExists           = fmt.Errorf("%w: 用户名或邮箱已被注册", ErrConflict)
	ErrViewRetriesExhausted = fmt.Errorf("%w: 播放记录重试次数已用尽", ErrConflict)
)

var kindTable = []struct {
	kind Kind
	errs []error
}{
	{KindValidation, []error{ErrInvalidID, ErrInvalidTargetKind, ErrEmptyContent, ErrNoFieldsToUpdate, ErrCannotSubscribeSelf, ErrMediaNotFound}},
	{KindNotFound, []error{ErrUserNotFound, ErrChannelNotFound, ErrVideoNotFound, ErrCommentNotFound, ErrTweetNotFound, ErrPlaylistNotFound}},
	{KindForbidden, []error{ErrVideoNoPermission, ErrCommentNoPermission, ErrTweetNoPermission, ErrPlaylistNoPermission, ErrChannelNoPermission}},
	{KindUnauthorized, []error{ErrInvalidCredentials}},
	{KindConflict, []error{ErrConflict}},
}

// KindOf 对任意错误分类，未知错误归为 internal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, row := range kindTable {
		for _, target := range row.errs {
			if errors.Is(err, target) {
				return row.kind
			}
		}
	}
	return KindInternal
}

// translateStoreError 把存储层的并发冲突转换为 ErrConflict，业务错误原样返回
func translateStoreError(err error) error {
	if err == nil || KindOf(err) != KindInternal {
		return err
	}
	if repository.IsConflict(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
