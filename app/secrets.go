package app

import (
	"net"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// SecretSource resolves the shared secret for the client a datagram came from.
type SecretSource interface {
	SecretForClient(addr net.Addr) ([]byte, error)
}

// StaticSecretSource uses one secret for every client.
type StaticSecretSource []byte

func (s StaticSecretSource) SecretForClient(net.Addr) ([]byte, error) {
	if len(s) == 0 {
		return nil, errors.New("no shared secret configured")
	}
	return s, nil
}

type ClientStore interface {
	// ClientSecret returns nil if the client is not registered.
	ClientSecret(ip string) ([]byte, error)
}

func clientKey(ip string) string {
	return "client:" + ip + ":secret"
}

type RedisClientStore struct {
	Redis string

	conn redisConnection
}

func (s *RedisClientStore) ClientSecret(ip string) ([]byte, error) {
	v, err := s.conn.ensureClient(s.Redis).Get(clientKey(ip)).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "unable to get secret for client %v", ip)
	}
	return v, nil
}

// ClientSecretSource looks clients up in Store by IP and uses Fallback for clients that are not
// registered. Store errors are returned rather than falling back.
type ClientSecretSource struct {
	Store    ClientStore
	Fallback []byte
}

func clientIP(addr net.Addr) string {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP.String()
	case nil:
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

func (s *ClientSecretSource) SecretForClient(addr net.Addr) ([]byte, error) {
	ip := clientIP(addr)
	if ip != "" {
		secret, err := s.Store.ClientSecret(ip)
		if err != nil {
			return nil, err
		}
		if len(secret) > 0 {
			return secret, nil
		}
	}
	if len(s.Fallback) == 0 {
		return nil, errors.Errorf("unknown client: %v", addr)
	}
	return s.Fallback, nil
}
