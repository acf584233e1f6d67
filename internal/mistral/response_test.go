package mistral

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConversationResponse_Text(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "string content",
			raw:  `{"outputs":[{"role":"assistant","content":"Hi there!"}]}`,
			want: "Hi there!",
		},
		{
			name: "chunked content",
			raw:  `{"outputs":[{"type":"message.output","role":"assistant","content":[{"type":"text","text":"Hi "},{"type":"tool_reference","title":"x"},{"type":"text","text":"there!"}]}]}`,
			want: "Hi there!",
		},
		{
			name: "tool entries skipped",
			raw:  `{"outputs":[{"type":"tool.execution","name":"web_search"},{"role":"assistant","content":"done"}]}`,
			want: "done",
		},
		{
			name: "non assistant entries skipped",
			raw:  `{"outputs":[{"role":"user","content":"echo"},{"role":"assistant","content":"reply"}]}`,
			want: "reply",
		},
		{
			name: "multiple assistant entries",
			raw:  `{"outputs":[{"role":"assistant","content":"one"},{"role":"assistant","content":"two"}]}`,
			want: "one\ntwo",
		},
		{
			name: "no outputs",
			raw:  `{"conversation_id":"conv_1"}`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewConversationResponse([]byte(tt.raw))
			require.Equal(t, tt.want, r.Text())
		})
	}
}

func TestConversationResponse_ConversationID(t *testing.T) {
	r := NewConversationResponse([]byte(`{"conversation_id":"conv_0193","outputs":[]}`))
	require.Equal(t, "conv_0193", r.ConversationID())

	require.Empty(t, NewConversationResponse([]byte(`{}`)).ConversationID())
}

func TestConversationResponse_RawIsACopy(t *testing.T) {
	src := []byte(`{"a":1}`)
	r := NewConversationResponse(src)
	src[2] = 'b'

	raw := r.Raw()
	require.Equal(t, `{"a":1}`, string(raw))
	raw[2] = 'c'
	require.Equal(t, `{"a":1}`, r.String())
}

func TestConversationResponse_MarshalJSON(t *testing.T) {
	r := NewConversationResponse([]byte(`{"outputs":[{"role":"assistant","content":"Hi"}]}`))
	out, err := json.Marshal(struct {
		Response *ConversationResponse `json:"response"`
	}{r})
	require.NoError(t, err)
	require.JSONEq(t, `{"response":{"outputs":[{"role":"assistant","content":"Hi"}]}}`, string(out))
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&ConfigurationError{Reason: "missing"}, KindConfiguration},
		{&TransportError{URL: "u", Err: errors.New("boom")}, KindTransport},
		{&ProviderError{StatusCode: 500}, KindProvider},
		{&DecodeError{Err: errors.New("bad")}, KindDecode},
		{fmt.Errorf("wrapped: %w", &ProviderError{StatusCode: 429}), KindProvider},
		{errors.New("plain"), KindUnknown},
		{nil, KindUnknown},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Kind(tc.err), "err=%v", tc.err)
	}
}

func TestErrorMessages(t *testing.T) {
	require.Equal(t, "mistral: API key is not configured", (&ConfigurationError{Reason: "API key is not configured"}).Error())
	require.Equal(t, "mistral: unexpected status 401 from u: denied", (&ProviderError{StatusCode: 401, URL: "u", Body: "denied"}).Error())
	require.Equal(t, "mistral: unexpected status 502 from u", (&ProviderError{StatusCode: 502, URL: "u"}).Error())

	cause := errors.New("eof")
	require.ErrorIs(t, &TransportError{URL: "u", Err: cause}, cause)
	require.ErrorIs(t, &DecodeError{Err: cause}, cause)
	require.ErrorIs(t, &ConfigurationError{Reason: "r", Err: cause}, cause)
}
