package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletions(t *testing.T) {
	h := &fakeHandler{reply: "🔢 Ditemukan **7 keluhan** di Jakarta hari ini."}
	a := newTestApp(t, h, &fakePinger{})

	body := `{"model":"keluhan-analytics","messages":[
		{"role":"system","content":"ignored"},
		{"role":"user","content":"berapa keluhan di jakarta hari ini?"}]}`
	w := doJSON(t, a, http.MethodPost, "/v1/chat/completions", body,
		map[string]string{sessionHeader: "sess-42"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-42", w.Header().Get(sessionHeader))
	assert.Equal(t, "berapa keluhan di jakarta hari ini?", h.gotQuery)
	assert.Equal(t, "sess-42", h.gotSession)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, "keluhan-analytics", resp.Model)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	assert.Equal(t, h.reply, resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Positive(t, resp.Usage.TotalTokens)
}

func TestChatCompletionsGeneratesSession(t *testing.T) {
	a := newTestApp(t, &fakeHandler{reply: "ok"}, &fakePinger{})

	body := `{"messages":[{"role":"user","content":"halo"}]}`
	w := doJSON(t, a, http.MethodPost, "/v1/chat/completions", body, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(sessionHeader))

	var resp chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ModelID, resp.Model)
}

func TestChatCompletionsUsesLastUserMessage(t *testing.T) {
	h := &fakeHandler{reply: "ok"}
	a := newTestApp(t, h, &fakePinger{})

	body := `{"messages":[
		{"role":"user","content":"pertanyaan pertama"},
		{"role":"assistant","content":"jawaban"},
		{"role":"user","content":"pertanyaan kedua"}]}`
	w := doJSON(t, a, http.MethodPost, "/v1/chat/completions", body, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pertanyaan kedua", h.gotQuery)
}

func TestChatCompletionsNoUserMessage(t *testing.T) {
	a := newTestApp(t, &fakeHandler{}, &fakePinger{})

	body := `{"messages":[{"role":"system","content":"setup"}]}`
	w := doJSON(t, a, http.MethodPost, "/v1/chat/completions", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request_error")
	assert.Contains(t, w.Body.String(), "no user message")
}

func TestChatCompletionsStreamRejected(t *testing.T) {
	a := newTestApp(t, &fakeHandler{}, &fakePinger{})

	body := `{"stream":true,"messages":[{"role":"user","content":"halo"}]}`
	w := doJSON(t, a, http.MethodPost, "/v1/chat/completions", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "streaming")
}

func TestChatCompletionsMalformedBody(t *testing.T) {
	a := newTestApp(t, &fakeHandler{}, &fakePinger{})

	w := doJSON(t, a, http.MethodPost, "/v1/chat/completions", `{"messages":`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request_error")
}

func TestListModels(t *testing.T) {
	a := newTestApp(t, &fakeHandler{}, &fakePinger{})

	w := doJSON(t, a, http.MethodGet, "/v1/models", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ModelID)
	assert.Contains(t, w.Body.String(), `"object":"list"`)
}
