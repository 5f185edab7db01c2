package app

import (
	"strings"
	"sync"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// redisConnection lazily creates a client for the address it is first asked for.
type redisConnection struct {
	initClient sync.Once
	client     *redis.Client
}

func (c *redisConnection) ensureClient(addr string) *redis.Client {
	c.initClient.Do(func() {
		c.client = redis.NewClient(&redis.Options{
			Addr: addr,
		})
	})
	return c.client
}

//go:generate mockgen -destination=mocks/mock_app.go -package=mocks github.com/theaaf/radius-core/app CredentialProvider,ClientStore,AccountingStore

func identityKey(id string) string {
	return "identity:" + id + ":credentials"
}

type Credentials interface {
	PlaintextPassword() []byte
}

type CredentialProvider interface {
	// CredentialsForIdentity returns nil credentials if the identity does not exist.
	CredentialsForIdentity(id string) (Credentials, error)
}

type RedisCredentialProvider struct {
	Redis string

	conn redisConnection
}

func (p *RedisCredentialProvider) CredentialsForIdentity(id string) (Credentials, error) {
	if strings.ContainsRune(id, ':') {
		return nil, nil
	}
	v, err := p.conn.ensureClient(p.Redis).Get(identityKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "unable to get credentials for %v", id)
	}
	return plaintextCredential(v), nil
}

type plaintextCredential []byte

func (p plaintextCredential) PlaintextPassword() []byte {
	return []byte(p)
}
