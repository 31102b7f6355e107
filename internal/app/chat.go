package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telcoinsight/keluhan-bot-go/internal/config"
)

// ModelID is the model name this API reports. Clients built against the
// OpenAI API select it like any hosted model.
const ModelID = "keluhan-analytics"

// sessionHeader carries the conversation id. Missing or unknown ids get
// a fresh session; the resolved id is echoed back on every response.
const sessionHeader = "X-Session-ID"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// chatCompletions is the OpenAI-compatible entry point. The last user
// message is the query; everything before it is conversation padding the
// session store already knows about.
func (a *Application) chatCompletions(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.recordHTTPError("bad_request", "/v1/chat/completions")
		c.JSON(http.StatusBadRequest, apiError{Error: apiErrorBody{
			Message: "invalid request body: " + err.Error(),
			Type:    "invalid_request_error",
		}})
		return
	}

	if req.Stream {
		a.recordHTTPError("unsupported", "/v1/chat/completions")
		c.JSON(http.StatusBadRequest, apiError{Error: apiErrorBody{
			Message: "streaming responses are not supported",
			Type:    "invalid_request_error",
		}})
		return
	}

	query := lastUserMessage(req.Messages)
	if query == "" {
		a.recordHTTPError("bad_request", "/v1/chat/completions")
		c.JSON(http.StatusBadRequest, apiError{Error: apiErrorBody{
			Message: "no user message provided",
			Type:    "invalid_request_error",
		}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.PipelineProcessing)
	defer cancel()

	result := a.handler.Handle(ctx, c.GetHeader(sessionHeader), query)

	model := req.Model
	if model == "" {
		model = ModelID
	}

	c.Header(sessionHeader, result.SessionID)
	c.JSON(http.StatusOK, chatResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chatChoice{{
			Message:      chatMessage{Role: "assistant", Content: result.Text},
			FinishReason: "stop",
		}},
		Usage: chatUsage{
			PromptTokens:     approxTokens(query),
			CompletionTokens: approxTokens(result.Text),
			TotalTokens:      approxTokens(query) + approxTokens(result.Text),
		},
	})
}

// listModels reports the single virtual model this API serves.
func (a *Application) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data": []gin.H{{
			"id":       ModelID,
			"object":   "model",
			"owned_by": "telcoinsight",
		}},
	})
}

func lastUserMessage(messages []chatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" && messages[i].Content != "" {
			return messages[i].Content
		}
	}
	return ""
}

// approxTokens is a rough 4-chars-per-token estimate. The pipeline has
// no real tokenizer and the usage block only exists for client
// compatibility.
func approxTokens(text string) int {
	return (len(text) + 3) / 4
}

func (a *Application) recordHTTPError(errorType, endpoint string) {
	if a.metrics != nil {
		a.metrics.RecordHTTPError(errorType, endpoint)
	}
}
