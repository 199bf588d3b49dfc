package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/profile-advisor/internal/ai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue []fakeChatResponse
}

type chatCallRecord struct {
	model   string
	config  *genai.GenerateContentConfig
	history []*genai.Content
	chat    *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func (f *fakeChatCreator) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, history: history, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGenerator(chats chatCreator, retries int) *Generator {
	return &Generator{chats: chats, model: "gemini-test", maxRetries: retries, logger: zap.NewNop()}
}

func stubWait(t *testing.T) {
	t.Helper()
	original := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = original })
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	stubWait(t)

	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	chats.enqueue(textResponse("retry ok"), nil)

	g := newTestGenerator(chats, 2)

	output, err := g.Invoke(context.Background(), ai.Request{System: "system", Prompt: "message"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}

	for _, call := range chats.calls {
		if call.model != "gemini-test" {
			t.Fatalf("unexpected model: %q", call.model)
		}
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if len(call.chat.messages) != 1 || call.chat.messages[0] != "message" {
			t.Fatalf("unexpected chat message: %+v", call.chat.messages)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	stubWait(t)

	chats := &fakeChatCreator{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue(nil, tempErr)
	chats.enqueue(nil, tempErr)

	_, err := newTestGenerator(chats, 2).Invoke(context.Background(), ai.Request{System: "sys", Prompt: "msg"})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	_, err := newTestGenerator(chats, 3).Invoke(context.Background(), ai.Request{System: "sys", Prompt: "msg"})
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	if _, err := newTestGenerator(chats, 3).Invoke(context.Background(), ai.Request{Prompt: "msg"}); err == nil {
		t.Fatal("expected error")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestInvokePassesHistoryAndSkipsEmptySystem(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("  answer  "), nil)

	out, err := newTestGenerator(chats, 1).Invoke(context.Background(), ai.Request{
		Prompt: "what next?",
		History: []ai.Message{
			{Role: ai.RoleUser, Content: "hi"},
			{Role: ai.RoleAssistant, Content: "hello"},
			{Role: ai.RoleUser, Content: "   "},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "answer" {
		t.Fatalf("unexpected output %q", out)
	}

	call := chats.calls[0]
	if call.config.SystemInstruction != nil {
		t.Fatal("expected no system instruction")
	}
	if len(call.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(call.history))
	}
	if call.history[1].Role != genai.RoleModel {
		t.Fatalf("expected assistant turn mapped to model role, got %q", call.history[1].Role)
	}
}

func TestGeneratorRejectsEmptyPromptAndResponse(t *testing.T) {
	chats := &fakeChatCreator{}
	g := newTestGenerator(chats, 1)

	if _, err := g.Invoke(context.Background(), ai.Request{System: "sys", Prompt: "   "}); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	chats.enqueue(&genai.GenerateContentResponse{}, nil)
	if _, err := g.Invoke(context.Background(), ai.Request{System: "sys", Prompt: "msg"}); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		retryable bool
		delay     time.Duration
	}{
		{name: "plain error", err: errors.New("boom"), retryable: false},
		{name: "server error", err: genai.APIError{Code: http.StatusServiceUnavailable}, retryable: true, delay: baseBackoff},
		{name: "short quota", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 5s."}, retryable: true, delay: 5 * time.Second},
		{name: "long quota", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "retry after 120 seconds"}, retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			delay, ok := retryDelay(tt.err, 0)
			if ok != tt.retryable {
				t.Fatalf("expected retryable=%v, got %v", tt.retryable, ok)
			}
			if ok && delay != tt.delay {
				t.Fatalf("expected delay %v, got %v", tt.delay, delay)
			}
		})
	}
}
