package app_test

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/theaaf/radius-core/app"
	"github.com/theaaf/radius-core/app/mocks"
)

var nasAddr = &net.UDPAddr{IP: net.ParseIP("192.168.1.100"), Port: 1812}

func TestClientSecretSource_Registered(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockClientStore(ctrl)
	store.EXPECT().ClientSecret("192.168.1.100").Return([]byte("found-secret"), nil)

	source := &app.ClientSecretSource{Store: store, Fallback: []byte("fallback")}
	secret, err := source.SecretForClient(nasAddr)
	require.NoError(t, err)
	assert.Equal(t, []byte("found-secret"), secret)
}

func TestClientSecretSource_Fallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockClientStore(ctrl)
	store.EXPECT().ClientSecret("192.168.1.100").Return(nil, nil)

	source := &app.ClientSecretSource{Store: store, Fallback: []byte("fallback")}
	secret, err := source.SecretForClient(nasAddr)
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback"), secret)
}

func TestClientSecretSource_UnknownClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockClientStore(ctrl)
	store.EXPECT().ClientSecret("192.168.1.100").Return(nil, nil)

	source := &app.ClientSecretSource{Store: store}
	_, err := source.SecretForClient(nasAddr)
	assert.Error(t, err)
}

func TestClientSecretSource_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockClientStore(ctrl)
	store.EXPECT().ClientSecret(gomock.Any()).Return(nil, errors.New("connection refused"))

	source := &app.ClientSecretSource{Store: store, Fallback: []byte("fallback")}
	_, err := source.SecretForClient(nasAddr)
	assert.Error(t, err)
}

func TestStaticSecretSource(t *testing.T) {
	secret, err := app.StaticSecretSource("testing123").SecretForClient(nasAddr)
	require.NoError(t, err)
	assert.Equal(t, []byte("testing123"), secret)

	_, err = app.StaticSecretSource(nil).SecretForClient(nasAddr)
	assert.Error(t, err)
}
