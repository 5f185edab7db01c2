package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/theaaf/radius-core/app"
	"github.com/theaaf/radius-core/app/mocks"
	"github.com/theaaf/radius-core/radius"
	"github.com/theaaf/radius-core/radius/dictionary"
)

func accountingRequest(attrs ...*radius.Attribute) *app.Request {
	return &app.Request{
		Addr: nasAddr,
		Packet: &radius.Packet{
			Code:       radius.CodeAccountingRequest,
			Attributes: attrs,
			Received:   &radius.ReceivedFields{Identifier: 3},
		},
	}
}

func TestAccountingResponder(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountingStore(ctrl)

	received := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.EXPECT().RecordAccounting(gomock.Any()).DoAndReturn(func(record *app.AccountingRecord) error {
		assert.Equal(t, "session-9", record.SessionID)
		assert.Equal(t, "Stop", record.StatusType)
		assert.Equal(t, "192.168.1.100", record.Client)
		assert.Equal(t, received, record.Received)
		assert.Equal(t, "jdoe", record.Attributes["User-Name"])
		assert.Equal(t, "session-9", record.Attributes["Acct-Session-Id"])
		return nil
	})

	responder := &app.AccountingResponder{
		Store:      store,
		Dictionary: dictionary.Default(),
		Now:        func() time.Time { return received },
	}
	proxyState := radius.MustAttribute(radius.NewStringAttribute(radius.AttributeTypeProxyState, []byte("p")))
	resp, err := responder.ServeRADIUS(context.Background(), accountingRequest(
		&radius.Attribute{Type: "40", Data: radius.Enum{Value: 2, Name: "Stop"}},
		radius.MustAttribute(radius.NewTextAttribute(radius.AttributeTypeAcctSessionID, "session-9")),
		userName("jdoe"),
		proxyState,
	))
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, radius.CodeAccountingResponse, resp.Code)
	require.Len(t, resp.Attributes, 1)
	assert.True(t, proxyState.Equal(resp.Attributes[0]))
}

func TestAccountingResponder_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountingStore(ctrl)
	store.EXPECT().RecordAccounting(gomock.Any()).Return(errors.New("connection refused"))

	responder := &app.AccountingResponder{Store: store}
	resp, err := responder.ServeRADIUS(context.Background(), accountingRequest(
		radius.MustAttribute(radius.NewTextAttribute(radius.AttributeTypeAcctSessionID, "session-9")),
	))
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestAccountingResponder_Discards(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountingStore(ctrl)
	responder := &app.AccountingResponder{Store: store}

	resp, err := responder.ServeRADIUS(context.Background(), accountingRequest(userName("jdoe")))
	assert.NoError(t, err)
	assert.Nil(t, resp)

	resp, err = responder.ServeRADIUS(context.Background(), &app.Request{Packet: &radius.Packet{Code: radius.CodeAccessRequest}})
	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestAccountingResponder_NumericNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountingStore(ctrl)
	store.EXPECT().RecordAccounting(gomock.Any()).DoAndReturn(func(record *app.AccountingRecord) error {
		assert.Equal(t, "jdoe", record.Attributes["1"])
		return nil
	})

	responder := &app.AccountingResponder{Store: store}
	_, err := responder.ServeRADIUS(context.Background(), accountingRequest(
		radius.MustAttribute(radius.NewTextAttribute(radius.AttributeTypeAcctSessionID, "s")),
		userName("jdoe"),
	))
	require.NoError(t, err)
}
