package history

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/docrag/docrag/internal/llm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.CreateSession("connection questions")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.ID == "" {
		t.Error("session has no ID")
	}
	if sess.Title != "connection questions" {
		t.Errorf("unexpected title %q", sess.Title)
	}

	got, err := s.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("got session %q, want %q", got.ID, sess.ID)
	}
}

func TestGetSessionMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSession("nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.CreateSession("")
	if err != nil {
		t.Fatal(err)
	}

	turns := []llm.Message{
		{Role: llm.RoleUser, Content: "What is connect?"},
		{Role: llm.RoleAssistant, Content: "A function that opens a connection."},
		{Role: llm.RoleUser, Content: "And how do I close it?"},
	}
	for _, msg := range turns {
		if err := s.AppendMessage(sess.ID, msg); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	got, err := s.Messages(sess.ID)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(got) != len(turns) {
		t.Fatalf("got %d messages, want %d", len(got), len(turns))
	}
	for i, msg := range got {
		if msg != turns[i] {
			t.Errorf("message %d: got %+v, want %+v", i, msg, turns[i])
		}
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.CreateSession("")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AppendMessage(sess.ID, llm.Message{Role: llm.RoleUser, Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteSession(sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	msgs, err := s.Messages(sess.ID)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages after delete, got %d", len(msgs))
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	var fk int
	if err := s.db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("querying foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys pragma is %d, want 1", fk)
	}

	sess, err := s.CreateSession("")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AppendMessage(sess.ID, llm.Message{Role: llm.RoleUser, Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSession(sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	var orphans int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM chat_messages WHERE session_id = ?`, sess.ID).Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Errorf("expected cascade to remove messages, found %d orphans", orphans)
	}
}

func TestListSessionsOrder(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateSession("first"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateSession("second"); err != nil {
		t.Fatal(err)
	}

	sessions, err := s.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}
