package app

import (
	"net"
	"strings"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

func AddIdentity(redisAddr, name, password string) error {
	if name == "" || strings.ContainsRune(name, ':') {
		return errors.New("invalid name")
	} else if password == "" {
		return errors.New("a password is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer client.Close()
	ok, err := client.SetNX(identityKey(name), password, 0).Result()
	if err != nil {
		return errors.Wrapf(err, "unable to store credentials")
	} else if !ok {
		return errors.Errorf("identity already exists: %v", name)
	}
	return nil
}

// AddClient registers a per-client shared secret, replacing any existing one.
func AddClient(redisAddr, ip, secret string) error {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return errors.Errorf("invalid client address: %v", ip)
	} else if secret == "" {
		return errors.New("a secret is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer client.Close()
	err := client.Set(clientKey(parsed.String()), secret, 0).Err()
	return errors.Wrapf(err, "unable to store client secret")
}
