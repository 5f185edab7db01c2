package app

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/pkg/errors"

	"github.com/theaaf/radius-core/radius"
)

// PAPAuthenticator answers Access-Requests carrying a User-Password by comparing it against the
// identity's stored credentials.
//
// PAPAuthenticator is safe for concurrent use.
type PAPAuthenticator struct {
	CredentialProvider CredentialProvider

	// RejectMessage is sent as a Reply-Message with every Access-Reject. Empty means none.
	RejectMessage string
}

type PAPAcceptResult struct {
	Identity string
}

type PAPRejectResult struct {
	Identity string
	Reason   error
}

type PAPDiscardResult struct {
	Reason error
}

func (auth *PAPAuthenticator) accept(p *radius.Packet, identity string) (*radius.Packet, interface{}, error) {
	return auth.response(p, radius.CodeAccessAccept), &PAPAcceptResult{
		Identity: identity,
	}, nil
}

func (auth *PAPAuthenticator) reject(p *radius.Packet, identity string, reason error) (*radius.Packet, interface{}, error) {
	resp := auth.response(p, radius.CodeAccessReject)
	if auth.RejectMessage != "" {
		resp.Add(radius.MustAttribute(radius.NewTextAttribute(radius.AttributeTypeReplyMessage, auth.RejectMessage)))
	}
	return resp, &PAPRejectResult{
		Identity: identity,
		Reason:   reason,
	}, nil
}

func (auth *PAPAuthenticator) discard(reason error) (*radius.Packet, interface{}, error) {
	return nil, &PAPDiscardResult{
		Reason: reason,
	}, nil
}

func (auth *PAPAuthenticator) response(p *radius.Packet, code radius.Code) *radius.Packet {
	resp := p.Response(code)
	if p.HasAttributeType(radius.NewAttributeType(radius.AttributeTypeMessageAuthenticator)) {
		resp.Add(radius.NewMessageAuthenticatorAttribute())
	}
	return resp
}

// Authenticate returns the response to send, if any, and a result describing the outcome. Errors
// are only returned for internal issues such as the credential provider failing.
func (auth *PAPAuthenticator) Authenticate(p *radius.Packet) (*radius.Packet, interface{}, error) {
	if p.Code != radius.CodeAccessRequest {
		return auth.discard(fmt.Errorf("unsupported code: %v", p.Code))
	}

	if p.HasAttributeType(radius.NewAttributeType(radius.AttributeTypeEAPMessage)) {
		// This is strictly a PAP authenticator.
		return auth.discard(fmt.Errorf("eap is not supported"))
	}

	identity, ok := p.Text(radius.NewAttributeType(radius.AttributeTypeUserName))
	if !ok || identity == "" {
		return auth.reject(p, "", fmt.Errorf("no user-name present"))
	}

	password, ok := p.Text(radius.NewAttributeType(radius.AttributeTypeUserPassword))
	if !ok {
		return auth.reject(p, identity, fmt.Errorf("no user-password present"))
	}

	credentials, err := auth.CredentialProvider.CredentialsForIdentity(identity)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to get credentials")
	} else if credentials == nil {
		return auth.reject(p, identity, fmt.Errorf("invalid identity: %s", identity))
	}

	if subtle.ConstantTimeCompare(credentials.PlaintextPassword(), []byte(password)) != 1 {
		return auth.reject(p, identity, fmt.Errorf("bad password"))
	}
	return auth.accept(p, identity)
}

func (auth *PAPAuthenticator) ServeRADIUS(ctx context.Context, r *Request) (*radius.Packet, error) {
	resp, result, err := auth.Authenticate(r.Packet)
	if err != nil {
		return nil, err
	}

	log := r.logger()
	switch r := result.(type) {
	case *PAPDiscardResult:
		log.WithField("reason", r.Reason).Info("packet discarded")
	case *PAPRejectResult:
		log.WithField("identity", r.Identity).WithField("reason", r.Reason).Info("access rejected")
	case *PAPAcceptResult:
		log.WithField("identity", r.Identity).Info("access accepted")
	default:
		log.WithField("result", r).Warnf("unknown result type: %T", r)
	}
	return resp, nil
}

// StatusServerResponder answers Status-Server requests with an Access-Accept.
func StatusServerResponder(ctx context.Context, r *Request) (*radius.Packet, error) {
	resp := r.Packet.Response(radius.CodeAccessAccept)
	resp.Add(radius.NewMessageAuthenticatorAttribute())
	r.logger().Debug("status-server answered")
	return resp, nil
}
