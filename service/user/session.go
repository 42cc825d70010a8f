package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gitee.com/taoJie_1/mall-advisor/internal/redis"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSessionBusy 等待会话锁超时, 同一会话已有消息在处理
var ErrSessionBusy = errors.New("会话正在处理中")

// 只有持有者才能释放或续期锁
const (
	unlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
	renewScript  = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("pexpire", KEYS[1], ARGV[2]) else return 0 end`
)

// 获取锁失败后的重试间隔
const lockRetryInterval = 50 * time.Millisecond

// SessionStore 会话状态的存取, 以及同一会话的串行化
type SessionStore interface {
	// Load 不存在时返回新会话
	Load(ctx context.Context, id string) (*common.Session, error)
	Save(ctx context.Context, session *common.Session) error
	Delete(ctx context.Context, id string) error
	// Lock 在 wait 时间内获取会话锁, 持有期间自动续期, 返回的函数用于释放
	Lock(ctx context.Context, id string) (func(), error)
}

type SessionOptions struct {
	TTL        time.Duration
	LockExpiry time.Duration
	LockWait   time.Duration
}

type sessionStore struct {
	rdb  redis.Service
	opts SessionOptions
	log  *logrus.Logger
}

func NewSessionStore(rdb redis.Service, opts SessionOptions, log *logrus.Logger) SessionStore {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.LockExpiry <= 0 {
		opts.LockExpiry = 30 * time.Second
	}
	if opts.LockWait <= 0 {
		opts.LockWait = 3 * time.Second
	}
	return &sessionStore{rdb: rdb, opts: opts, log: log}
}

func (s *sessionStore) Load(ctx context.Context, id string) (*common.Session, error) {
	if s.rdb == nil {
		return nil, fmt.Errorf("Redis客户端未初始化")
	}

	data, err := s.rdb.Get(ctx, redis.SessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.ErrNil) {
		return common.NewSession(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话 %s 失败: %w", id, err)
	}

	session := common.NewSession(id)
	if err := json.Unmarshal(data, session); err != nil {
		// 数据损坏时重新开始
		s.log.Warnf("会话 %s 数据损坏, 已重置: %v", id, err)
		return common.NewSession(id), nil
	}
	session.ID = id
	return session, nil
}

func (s *sessionStore) Save(ctx context.Context, session *common.Session) error {
	if s.rdb == nil {
		return fmt.Errorf("Redis客户端未初始化")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话 %s 失败: %w", session.ID, err)
	}
	ttl := utils.GetTTLWithJitter(int64(s.opts.TTL / time.Second))
	if err := s.rdb.Set(ctx, redis.SessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("保存会话 %s 失败: %w", session.ID, err)
	}
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	if s.rdb == nil {
		return fmt.Errorf("Redis客户端未初始化")
	}
	return s.rdb.Del(ctx, redis.SessionKeyPrefix+id).Err()
}

func (s *sessionStore) Lock(ctx context.Context, id string) (func(), error) {
	if s.rdb == nil {
		return nil, fmt.Errorf("Redis客户端未初始化")
	}

	key := redis.LockKeyPrefix + id
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, s.opts.LockWait)
	defer cancel()

	for {
		ok, err := s.rdb.SetNX(waitCtx, key, token, s.opts.LockExpiry).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("获取会话 %s 锁失败: %w", id, err)
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrSessionBusy
		case <-time.After(lockRetryInterval):
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go s.keepAlive(id, key, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			// 使用后台 context 确保即使原始请求取消，锁释放也能执行
			if err := s.rdb.Eval(context.Background(), unlockScript, []string{key}, token).Err(); err != nil {
				s.log.Warnf("释放会话 %s 锁失败: %v", id, err)
			}
		})
	}, nil
}

// keepAlive 每隔 1/3 过期时间续期一次, 直到释放或锁已不属于自己
func (s *sessionStore) keepAlive(id, key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.opts.LockExpiry / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := s.rdb.Eval(context.Background(), renewScript, []string{key}, token, s.opts.LockExpiry.Milliseconds()).Int64()
			if err != nil {
				s.log.Warnf("续期会话 %s 锁失败: %v", id, err)
				continue
			}
			if n == 0 {
				s.log.Warnf("会话 %s 的锁已丢失, 停止续期", id)
				return
			}
		}
	}
}
