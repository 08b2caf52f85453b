package action

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// Authenticator runs the fail-fast validation pipeline for action invocations.
// It holds no mutable state and is safe for concurrent use.
type Authenticator struct {
	secret   string
	validate *validator.Validate
	schema   *gojsonschema.Schema
}

// NewAuthenticator creates an Authenticator keyed with the shared signing
// secret. An empty secret is accepted here and reported per request as a
// configuration error.
func NewAuthenticator(secret string, validate *validator.Validate) (*Authenticator, error) {
	schema, err := compilePayloadSchema()
	if err != nil {
		return nil, err
	}

	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &Authenticator{
		secret:   secret,
		validate: validate,
		schema:   schema,
	}, nil
}

// Configured reports whether a signing secret is available.
func (a *Authenticator) Configured() bool {
	return a.secret != ""
}

// Authenticate validates req and returns the decoded invocation. Steps run in
// order and stop at the first failure:
//
//  1. all envelope fields present
//  2. signing secret configured
//  3. signature matches the raw data
//  4. data decodes into a Payload
//  5. payload fields satisfy policy
func (a *Authenticator) Authenticate(req Request, policy Policy) (*Invocation, error) {
	if err := a.validate.Struct(req); err != nil {
		return nil, &Error{Kind: KindMalformedRequest, Err: ErrMissingFields, Detail: err.Error()}
	}

	if !a.Configured() {
		return nil, newError(KindConfiguration, "", ErrSecretNotConfigured)
	}

	if !Verify(req.Data, req.Signature, a.secret) {
		return nil, newError(KindUnauthorized, "", ErrInvalidSignature)
	}

	payload, err := a.decode(req.Data)
	if err != nil {
		return nil, &Error{Kind: KindMalformedRequest, Err: ErrInvalidDataFormat, Detail: err.Error()}
	}

	locale := payload.UserLocale
	if locale == "" {
		locale = "en"
	}

	if err := a.validate.Struct(payload); err != nil {
		return nil, newError(KindMalformedRequest, locale, ErrMissingActionRunID)
	}

	if policy.RequireTargets && len(payload.IDList) == 0 {
		return nil, newError(KindMalformedRequest, locale, ErrMissingIDList)
	}

	return &Invocation{
		AuthorizedAppID: req.AuthorizedAppID,
		MerchantID:      req.MerchantID,
		Payload:         payload,
		Locale:          locale,
	}, nil
}

func (a *Authenticator) decode(data string) (Payload, error) {
	var payload Payload

	if err := validateStructure(a.schema, data); err != nil {
		return payload, err
	}

	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return payload, fmt.Errorf("failed to decode payload: %w", err)
	}

	return payload, nil
}
