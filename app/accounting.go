package app

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/theaaf/radius-core/radius"
)

// AccountingRecord is one Accounting-Request as it is stored.
type AccountingRecord struct {
	SessionID  string
	StatusType string
	Client     string
	Received   time.Time

	// Attributes holds the first value of each attribute, keyed by dictionary name where known.
	Attributes map[string]string
}

type AccountingStore interface {
	RecordAccounting(record *AccountingRecord) error
}

// AccountingResponder acknowledges Accounting-Requests, recording them first if Store is set. A
// store failure sends nothing so the client retransmits.
type AccountingResponder struct {
	Store AccountingStore

	// Dictionary names the stored attributes. Nil stores them by numeric type.
	Dictionary radius.Dictionary

	Now func() time.Time
}

func (a *AccountingResponder) record(r *Request) *AccountingRecord {
	p := r.Packet
	record := &AccountingRecord{
		Client:     clientIP(r.Addr),
		Received:   time.Now(),
		Attributes: map[string]string{},
	}
	if a.Now != nil {
		record.Received = a.Now()
	}
	record.SessionID, _ = p.Text(radius.NewAttributeType(radius.AttributeTypeAcctSessionID))
	if attr := p.Lookup(radius.NewAttributeType(radius.AttributeTypeAcctStatusType)); attr != nil {
		record.StatusType = attr.Data.String()
	}
	for _, attr := range p.Attributes {
		name := string(attr.Type)
		if a.Dictionary != nil {
			if def, ok := a.Dictionary.LookupAttributeDefinition(attr.Type); ok && def.Name != "" {
				name = def.Name
			}
		}
		if _, ok := record.Attributes[name]; !ok {
			record.Attributes[name] = attr.Data.String()
		}
	}
	return record
}

func (a *AccountingResponder) ServeRADIUS(ctx context.Context, r *Request) (*radius.Packet, error) {
	if r.Packet.Code != radius.CodeAccountingRequest {
		r.logger().WithField("code", r.Packet.Code).Info("packet discarded: not an accounting request")
		return nil, nil
	}

	record := a.record(r)
	if record.SessionID == "" {
		r.logger().Info("packet discarded: no acct-session-id")
		return nil, nil
	}
	log := r.logger().WithField("session_id", record.SessionID).WithField("status_type", record.StatusType)
	if a.Store != nil {
		if err := a.Store.RecordAccounting(record); err != nil {
			return nil, errors.Wrapf(err, "unable to record accounting for session %v", record.SessionID)
		}
	}
	log.Info("accounting recorded")

	return r.Packet.Response(radius.CodeAccountingResponse), nil
}

// RedisAccountingStore keeps the latest record of each session in a hash at session:<id>.
type RedisAccountingStore struct {
	Redis string
	TTL   time.Duration

	conn redisConnection
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisAccountingStore) RecordAccounting(record *AccountingRecord) error {
	if record.SessionID == "" {
		return errors.New("accounting request has no session id")
	}
	fields := map[string]interface{}{
		"status_type": record.StatusType,
		"client":      record.Client,
		"received":    record.Received.UTC().Format(time.RFC3339),
	}
	for name, value := range record.Attributes {
		fields["attr:"+name] = value
	}

	key := sessionKey(record.SessionID)
	pipe := s.conn.ensureClient(s.Redis).TxPipeline()
	pipe.HMSet(key, fields)
	if s.TTL > 0 {
		pipe.Expire(key, s.TTL)
	}
	_, err := pipe.Exec()
	return errors.Wrapf(err, "unable to store session %v", record.SessionID)
}
