package app

import (
	"net"
	"strings"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

func RemoveIdentity(redisAddr, name string) error {
	if name == "" || strings.ContainsRune(name, ':') {
		return errors.New("invalid name")
	}
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer client.Close()
	_, err := client.Del(identityKey(name)).Result()
	return errors.Wrapf(err, "unable to remove credentials")
}

func RemoveClient(redisAddr, ip string) error {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return errors.Errorf("invalid client address: %v", ip)
	}
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer client.Close()
	_, err := client.Del(clientKey(parsed.String())).Result()
	return errors.Wrapf(err, "unable to remove client secret")
}
