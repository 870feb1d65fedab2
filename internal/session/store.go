package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type AuthMethod string

const (
	// AuthMethodCavos 托管钱包会话, 持有可轮换的访问令牌
	AuthMethodCavos AuthMethod = "cavos"
	// AuthMethodWallet 直连钱包会话, 无访问令牌
	AuthMethodWallet AuthMethod = "wallet"
)

type Session struct {
	Id            string
	Email         string
	WalletAddress string
	AccessToken   string
	AuthMethod    AuthMethod
}

// Store 保存用户会话, 令牌只在服务端流转
type Store struct {
	mutex sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// Put 创建新会话并返回会话ID
func (store *Store) Put(sess Session) string {
	if sess.Id == "" {
		sess.Id = uuid.NewString()
	}
	store.cache.Set(sess.Id, sess, store.ttl)
	return sess.Id
}

func (store *Store) Get(id string) (Session, bool) {
	v, ok := store.cache.Get(id)
	if !ok {
		return Session{}, false
	}
	return v.(Session), true
}

// UpdateAccessToken 保存轮换后的访问令牌。托管令牌一次一换,
// 不落盘新令牌会导致下一次签名操作失败。
func (store *Store) UpdateAccessToken(id string, accessToken string) bool {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	v, ok := store.cache.Get(id)
	if !ok {
		return false
	}

	sess := v.(Session)
	sess.AccessToken = accessToken
	store.cache.Set(id, sess, store.ttl)
	return true
}

func (store *Store) Delete(id string) {
	store.cache.Delete(id)
}
