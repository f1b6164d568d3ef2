package transport

import "encoding/json"

// CodeOK is the envelope code signalling domain-level success.
const CodeOK = 200

// Envelope is the uniform wrapper the backend puts around every enveloped
// response. Code carries the domain outcome; the HTTP status stays 200.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeEnvelope resolves, once per response, whether the body is enveloped.
// The decision is keyed on the presence of a top-level "code" field: a few
// legacy endpoints return their payload bare and must pass through
// untouched. Returns ok=false for the passthrough path.
func decodeEnvelope(raw []byte) (*Envelope, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if _, hasCode := probe["code"]; !hasCode {
		return nil, false
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	return &env, true
}
