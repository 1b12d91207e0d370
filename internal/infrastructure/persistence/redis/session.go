package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 登录时写入用户会话（user_id/email/nickname/role/login_at）
// 2. 登出时把当前Token加入黑名单——JWT本身无法主动失效，
//    黑名单是服务端唯一能"收回"Token的手段
// 3. 权限判断(RequireAdmin)走JWT Claims里的role，
//    会话只承担在线状态和强制下线
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// sessionKey 会话Key: session:{user_id}
func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

// blacklistKey 黑名单Key: blacklist:{token}
func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// SaveSession 保存用户会话
// TTL与Refresh Token有效期一致，过期自动清理
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)

	// HMSet批量写入多个字段，减少网络往返
	if err := s.client.HMSet(ctx, key, sessionData).Err(); err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}

	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "设置会话过期时间失败")
	}

	return nil
}

// GetSession 获取用户会话
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}

	// HGetAll对不存在的Key返回空map而不是错误
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	return result, nil
}

// DeleteSession 删除用户会话（登出时调用）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// 使用场景:
// 1. 用户登出(Logout用例)
// 2. 管理员强制下线某个账号
// TTL取Access Token剩余有效期即可——Token自己过期后黑名单没必要再留着
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
// RequireAuth中间件每个请求都会调用,靠Redis的O(1)查询扛住
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 为什么JWT还需要Redis？
//    - JWT无状态,签发后服务端无法让它提前失效
//    - 登出、强制下线都依赖黑名单机制
//    - 会话Hash里存着角色和登录时间,便于运营侧查在线状态
//
// 2. Key设计规范
//    - session:{user_id}: 用户会话信息(Hash)
//    - blacklist:{token}: Token黑名单(String)
//    - 冒号分隔命名空间,便于按前缀监控和清理
//
// 3. 过期时间策略
//    - session TTL = Refresh Token有效期(7天)
//    - blacklist TTL = Access Token有效期(2小时)
//    - 都靠Redis自动过期,不需要清理任务
