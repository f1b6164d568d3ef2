package transport

import "testing"

func TestDecodeEnvelope_Enveloped(t *testing.T) {
	env, ok := decodeEnvelope([]byte(`{"code":200,"message":"success","data":{"id":1}}`))
	if !ok {
		t.Fatalf("expected envelope detection")
	}
	if env.Code != 200 || env.Message != "success" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if string(env.Data) != `{"id":1}` {
		t.Fatalf("data = %s", env.Data)
	}
}

func TestDecodeEnvelope_MissingCodeIsPassthrough(t *testing.T) {
	if _, ok := decodeEnvelope([]byte(`{"message":"hi","data":1}`)); ok {
		t.Fatalf("body without code must take the passthrough path")
	}
}

func TestDecodeEnvelope_NonObjectIsPassthrough(t *testing.T) {
	for _, raw := range []string{`[1,2,3]`, `"plain"`, `42`, `not json`} {
		if _, ok := decodeEnvelope([]byte(raw)); ok {
			t.Fatalf("%s must take the passthrough path", raw)
		}
	}
}
