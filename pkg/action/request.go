// Package action authenticates webhook action invocations sent by the ikas platform.
//
// An invocation carries an opaque data string and a hex HMAC-SHA256 signature of
// that string. The signature is checked against the raw bytes before the data
// is decoded, so that no re-encoding can change what was signed.
package action

// Request is the wire envelope of an action invocation.
type Request struct {
	Signature       string `json:"signature"       validate:"required"`
	AuthorizedAppID string `json:"authorizedAppId" validate:"required"`
	MerchantID      string `json:"merchantId"      validate:"required"`
	Data            string `json:"data"            validate:"required"`
}

// Payload is the decoded form of Request.Data.
type Payload struct {
	ActionRunID string   `json:"actionRunId"          validate:"required"`
	IDList      []string `json:"idList,omitempty"`
	UserLocale  string   `json:"userLocale,omitempty"`
}

// Policy describes what an action needs from its payload.
type Policy struct {
	// RequireTargets rejects payloads without at least one entity ID.
	RequireTargets bool
}

// Invocation is an authenticated and validated action call.
type Invocation struct {
	AuthorizedAppID string
	MerchantID      string
	Payload         Payload
	Locale          string
}

// ActionRunID returns the platform's run identifier.
func (i *Invocation) ActionRunID() string {
	return i.Payload.ActionRunID
}

// IDs returns the entity identifiers targeted by the invocation.
func (i *Invocation) IDs() []string {
	return i.Payload.IDList
}
