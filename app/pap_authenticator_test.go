package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/theaaf/radius-core/app"
	"github.com/theaaf/radius-core/app/mocks"
	"github.com/theaaf/radius-core/radius"
)

type password string

func (p password) PlaintextPassword() []byte {
	return []byte(p)
}

func accessRequest(attrs ...*radius.Attribute) *radius.Packet {
	return &radius.Packet{
		Code:       radius.CodeAccessRequest,
		Attributes: attrs,
		Received:   &radius.ReceivedFields{Identifier: 7},
	}
}

func userName(name string) *radius.Attribute {
	return radius.MustAttribute(radius.NewTextAttribute(radius.AttributeTypeUserName, name))
}

func userPassword(pw string) *radius.Attribute {
	return radius.MustAttribute(radius.NewTextAttribute(radius.AttributeTypeUserPassword, pw))
}

func TestPAPAuthenticator(t *testing.T) {
	for name, tc := range map[string]struct {
		Request     *radius.Packet
		Credentials app.Credentials
		Code        radius.Code
		Result      interface{}
	}{
		"Accept": {
			Request:     accessRequest(userName("jdoe"), userPassword("hunter2")),
			Credentials: password("hunter2"),
			Code:        radius.CodeAccessAccept,
			Result:      &app.PAPAcceptResult{},
		},
		"BadPassword": {
			Request:     accessRequest(userName("jdoe"), userPassword("hunter3")),
			Credentials: password("hunter2"),
			Code:        radius.CodeAccessReject,
			Result:      &app.PAPRejectResult{},
		},
		"PrefixPassword": {
			Request:     accessRequest(userName("jdoe"), userPassword("hunter")),
			Credentials: password("hunter2"),
			Code:        radius.CodeAccessReject,
			Result:      &app.PAPRejectResult{},
		},
		"UnknownIdentity": {
			Request: accessRequest(userName("jdoe"), userPassword("hunter2")),
			Code:    radius.CodeAccessReject,
			Result:  &app.PAPRejectResult{},
		},
	} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			provider := mocks.NewMockCredentialProvider(ctrl)
			provider.EXPECT().CredentialsForIdentity("jdoe").Return(tc.Credentials, nil)

			auth := &app.PAPAuthenticator{CredentialProvider: provider}
			resp, result, err := auth.Authenticate(tc.Request)
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tc.Code, resp.Code)
			assert.IsType(t, tc.Result, result)
		})
	}
}

func TestPAPAuthenticator_NoProviderCall(t *testing.T) {
	for name, tc := range map[string]struct {
		Request *radius.Packet
		Code    radius.Code
		Discard bool
	}{
		"NoUserName": {
			Request: accessRequest(userPassword("hunter2")),
			Code:    radius.CodeAccessReject,
		},
		"NoUserPassword": {
			Request: accessRequest(userName("jdoe")),
			Code:    radius.CodeAccessReject,
		},
		"EAP": {
			Request: accessRequest(userName("jdoe"),
				radius.MustAttribute(radius.NewConcatAttribute(radius.AttributeTypeEAPMessage, []byte{2, 1, 0, 5, 1})),
				radius.NewMessageAuthenticatorAttribute()),
			Discard: true,
		},
		"WrongCode": {
			Request: &radius.Packet{Code: radius.CodeAccountingRequest},
			Discard: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			provider := mocks.NewMockCredentialProvider(ctrl)

			auth := &app.PAPAuthenticator{CredentialProvider: provider}
			resp, result, err := auth.Authenticate(tc.Request)
			require.NoError(t, err)
			if tc.Discard {
				assert.Nil(t, resp)
				assert.IsType(t, &app.PAPDiscardResult{}, result)
				return
			}
			require.NotNil(t, resp)
			assert.Equal(t, tc.Code, resp.Code)
		})
	}
}

func TestPAPAuthenticator_ProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockCredentialProvider(ctrl)
	provider.EXPECT().CredentialsForIdentity("jdoe").Return(nil, errors.New("connection refused"))

	auth := &app.PAPAuthenticator{CredentialProvider: provider}
	resp, err := auth.ServeRADIUS(context.Background(), &app.Request{
		Addr:   nasAddr,
		Packet: accessRequest(userName("jdoe"), userPassword("hunter2")),
	})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestPAPAuthenticator_ResponseAttributes(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockCredentialProvider(ctrl)
	provider.EXPECT().CredentialsForIdentity("jdoe").Return(password("hunter2"), nil).Times(2)

	auth := &app.PAPAuthenticator{CredentialProvider: provider, RejectMessage: "go away"}
	proxyState := radius.MustAttribute(radius.NewStringAttribute(radius.AttributeTypeProxyState, []byte("proxy-1")))

	resp, err := auth.ServeRADIUS(context.Background(), &app.Request{
		Addr:   nasAddr,
		Packet: accessRequest(userName("jdoe"), userPassword("nope"), proxyState, radius.NewMessageAuthenticatorAttribute()),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, radius.CodeAccessReject, resp.Code)
	assert.True(t, resp.HasAttributeType("80"))
	msg, ok := resp.Text("18")
	assert.True(t, ok)
	assert.Equal(t, "go away", msg)
	require.NotNil(t, resp.Lookup("33"))
	assert.True(t, proxyState.Equal(resp.Lookup("33")))

	resp, err = auth.ServeRADIUS(context.Background(), &app.Request{
		Addr:   nasAddr,
		Packet: accessRequest(userName("jdoe"), userPassword("hunter2")),
	})
	require.NoError(t, err)
	assert.Equal(t, radius.CodeAccessAccept, resp.Code)
	assert.False(t, resp.HasAttributeType("80"))
	assert.False(t, resp.HasAttributeType("18"))
}

func TestStatusServerResponder(t *testing.T) {
	resp, err := app.StatusServerResponder(context.Background(), &app.Request{
		Addr:   nasAddr,
		Packet: &radius.Packet{Code: radius.CodeStatusServer, Attributes: []*radius.Attribute{radius.NewMessageAuthenticatorAttribute()}},
	})
	require.NoError(t, err)
	assert.Equal(t, radius.CodeAccessAccept, resp.Code)
	assert.True(t, resp.HasAttributeType("80"))
}

func TestMux(t *testing.T) {
	var called radius.Code
	mux := app.Mux{
		radius.CodeAccessRequest: app.HandlerFunc(func(ctx context.Context, r *app.Request) (*radius.Packet, error) {
			called = r.Packet.Code
			return r.Packet.Response(radius.CodeAccessAccept), nil
		}),
	}

	resp, err := mux.ServeRADIUS(context.Background(), &app.Request{Packet: &radius.Packet{Code: radius.CodeAccessRequest}})
	require.NoError(t, err)
	assert.Equal(t, radius.CodeAccessRequest, called)
	assert.Equal(t, radius.CodeAccessAccept, resp.Code)

	resp, err = mux.ServeRADIUS(context.Background(), &app.Request{Packet: &radius.Packet{Code: radius.CodeCoARequest}})
	assert.NoError(t, err)
	assert.Nil(t, resp)
}
