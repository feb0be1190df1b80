package answer

import (
	"strings"
	"testing"
)

func TestNewLanguageGateRejectsUnknownCode(t *testing.T) {
	if _, err := NewLanguageGate([]string{"xx"}); err == nil {
		t.Error("expected error for unknown language code")
	}
	if _, err := NewLanguageGate(nil); err == nil {
		t.Error("expected error for empty language list")
	}
}

func TestLanguageGateCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("language models are slow to load")
	}

	gate, err := NewLanguageGate([]string{"en"})
	if err != nil {
		t.Fatalf("NewLanguageGate failed: %v", err)
	}

	ok, _ := gate.Check("How do I open a connection to the database server?")
	if !ok {
		t.Error("English question should pass the gate")
	}

	ok, msg := gate.Check("Wie öffne ich eine Verbindung zum Datenbankserver?")
	if ok {
		t.Error("German question should not pass an English-only gate")
	}
	if !strings.Contains(msg, "English") {
		t.Errorf("rejection message should name the accepted language, got %q", msg)
	}
}
