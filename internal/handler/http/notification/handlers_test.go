package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/usecase/dispatch"
)

type stubSender struct {
	gotChatID   string
	gotMsg      entity.Message
	gotCategory string
	result      dispatch.SendResult
}

func (s *stubSender) Send(_ context.Context, chatID string, msg entity.Message, category string, _ map[string]any) dispatch.SendResult {
	s.gotChatID = chatID
	s.gotMsg = msg
	s.gotCategory = category
	return s.result
}

type stubBroadcaster struct {
	gotChatIDs []string
	result     dispatch.BroadcastResult
}

func (s *stubBroadcaster) Broadcast(_ context.Context, chatIDs []string, _ entity.Message, _ string, _ map[string]any) dispatch.BroadcastResult {
	s.gotChatIDs = chatIDs
	return s.result
}

func TestSendHandler(t *testing.T) {
	t.Run("TC-1: should dispatch and return the result", func(t *testing.T) {
		sender := &stubSender{result: dispatch.SendResult{Success: true, MessageID: 555}}
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
			strings.NewReader(`{"chat_id":"12345","text":"order ready","parse_mode":"markdown","category":"order_created"}`))
		rec := httptest.NewRecorder()

		SendHandler{sender}.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
		}
		var result dispatch.SendResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !result.Success || result.MessageID != 555 {
			t.Errorf("result = %+v, want success with message id 555", result)
		}
		if sender.gotChatID != "12345" {
			t.Errorf("chat id = %q, want 12345", sender.gotChatID)
		}
		if sender.gotMsg.Mode != entity.ModeMarkdown {
			t.Errorf("mode = %q, want markdown", sender.gotMsg.Mode)
		}
		if sender.gotCategory != "order_created" {
			t.Errorf("category = %q, want order_created", sender.gotCategory)
		}
	})

	t.Run("TC-2: should default the category to manual", func(t *testing.T) {
		sender := &stubSender{}
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
			strings.NewReader(`{"chat_id":"12345","text":"hello"}`))
		SendHandler{sender}.ServeHTTP(httptest.NewRecorder(), req)

		if sender.gotCategory != "manual" {
			t.Errorf("category = %q, want manual", sender.gotCategory)
		}
	})

	t.Run("TC-3: should reject missing chat_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
			strings.NewReader(`{"text":"hello"}`))
		rec := httptest.NewRecorder()
		SendHandler{&stubSender{}}.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})

	t.Run("TC-4: should reject empty text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
			strings.NewReader(`{"chat_id":"12345","text":""}`))
		rec := httptest.NewRecorder()
		SendHandler{&stubSender{}}.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})

	t.Run("TC-5: should reject an unknown destination kind", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
			strings.NewReader(`{"chat_id":"12345","kind":"manager","text":"hello"}`))
		rec := httptest.NewRecorder()
		SendHandler{&stubSender{}}.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})

	t.Run("TC-6: should reject malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
			strings.NewReader(`{"chat_id":`))
		rec := httptest.NewRecorder()
		SendHandler{&stubSender{}}.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})
}

func TestBroadcastHandler(t *testing.T) {
	t.Run("TC-1: should dispatch to all chats", func(t *testing.T) {
		bc := &stubBroadcaster{result: dispatch.BroadcastResult{TotalRecipients: 2, SuccessRate: 100}}
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/broadcast",
			strings.NewReader(`{"chat_ids":["1","2"],"text":"shift published","category":"shift_published"}`))
		rec := httptest.NewRecorder()

		BroadcastHandler{bc}.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
		}
		if len(bc.gotChatIDs) != 2 {
			t.Errorf("chat ids = %v, want 2 entries", bc.gotChatIDs)
		}
	})

	t.Run("TC-2: should reject empty chat_ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/broadcast",
			strings.NewReader(`{"chat_ids":[],"text":"hello"}`))
		rec := httptest.NewRecorder()
		BroadcastHandler{&stubBroadcaster{}}.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})
}

type stubHistoryRepo struct {
	gotChatID string
	gotLimit  int
	records   []entity.DeliveryRecord
}

func (s *stubHistoryRepo) RecentByChat(_ context.Context, chatID string, limit int) ([]entity.DeliveryRecord, error) {
	s.gotChatID = chatID
	s.gotLimit = limit
	return s.records, nil
}

func TestHistoryHandler(t *testing.T) {
	t.Run("TC-1: should return records for a chat", func(t *testing.T) {
		repo := &stubHistoryRepo{records: []entity.DeliveryRecord{
			{ID: 1, ChatID: "12345", Category: "order_created", Success: true},
		}}
		req := httptest.NewRequest(http.MethodGet, "/api/notifications/history?chat_id=12345&limit=5", nil)
		rec := httptest.NewRecorder()

		HistoryHandler{dispatch.History{Repo: repo}}.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200", rec.Code)
		}
		if repo.gotChatID != "12345" || repo.gotLimit != 5 {
			t.Errorf("repo called with (%q, %d), want (12345, 5)", repo.gotChatID, repo.gotLimit)
		}
		var body map[string][]historyItem
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(body["notifications"]) != 1 {
			t.Errorf("notifications = %d, want 1", len(body["notifications"]))
		}
	})

	t.Run("TC-2: should reject missing chat_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/notifications/history", nil)
		rec := httptest.NewRecorder()
		HistoryHandler{dispatch.History{Repo: &stubHistoryRepo{}}}.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})
}
