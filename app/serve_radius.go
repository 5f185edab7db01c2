package app

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/theaaf/radius-core/radius"
	"github.com/theaaf/radius-core/radius/dictionary"
)

// LoadDictionary returns the default dictionary, extended by the YAML file at path if it is set.
// Definitions in the file take precedence.
func LoadDictionary(path string) (radius.Dictionary, error) {
	if path == "" {
		return dictionary.Default(), nil
	}
	extra, err := dictionary.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return dictionary.Compound{extra, dictionary.Default()}, nil
}

// ServeRADIUS runs the authentication and accounting listeners until ctx is done.
func ServeRADIUS(ctx context.Context, cfg *Config, log logrus.FieldLogger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	dict, err := LoadDictionary(cfg.Dictionary)
	if err != nil {
		return errors.Wrap(err, "unable to load dictionary")
	}
	codec := &radius.Codec{Dictionary: dict}

	secrets := &ClientSecretSource{
		Store:    &RedisClientStore{Redis: cfg.Redis},
		Fallback: []byte(cfg.SharedSecret),
	}
	reporter := func(addr net.Addr, err error) {
		log.WithField("addr", addr).Error(err.Error())
	}

	newServer := func(addr string, handler Handler) (*RADIUSServer, error) {
		cache, err := NewDedupCache(cfg.DedupMode, cfg.DedupTTL)
		if err != nil {
			return nil, err
		}
		return &RADIUSServer{
			Logger:        log,
			Addr:          addr,
			Handler:       handler,
			Secrets:       secrets,
			Codec:         codec,
			Dedup:         cache,
			ErrorReporter: reporter,
		}, nil
	}

	authServer, err := newServer(cfg.AuthAddr, Mux{
		radius.CodeAccessRequest: &PAPAuthenticator{
			CredentialProvider: &RedisCredentialProvider{Redis: cfg.Redis},
			RejectMessage:      "authentication failed",
		},
		radius.CodeStatusServer: HandlerFunc(StatusServerResponder),
	})
	if err != nil {
		return err
	}
	acctServer, err := newServer(cfg.AcctAddr, Mux{
		radius.CodeAccountingRequest: &AccountingResponder{
			Store:      &RedisAccountingStore{Redis: cfg.Redis, TTL: cfg.SessionTTL},
			Dictionary: dict,
		},
	})
	if err != nil {
		return err
	}

	if err := authServer.Start(); err != nil {
		return err
	}
	if err := acctServer.Start(); err != nil {
		authServer.Stop()
		return err
	}

	<-ctx.Done()
	authServer.Stop()
	acctServer.Stop()
	return ctx.Err()
}
