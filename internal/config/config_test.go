package config

import (
	"testing"

	"github.com/dukex/integrail/internal/domain"
)

func TestParseOAuthClients(t *testing.T) {
	clients, err := ParseOAuthClients([]string{
		"gmail:id-1:secret-1:https://oauth.example.com/gmail/token",
		"slack:id-2:secret-2:https://oauth.example.com/slack/token",
	})
	if err != nil {
		t.Fatalf("ParseOAuthClients() unexpected error: %v", err)
	}

	if len(clients) != 2 {
		t.Fatalf("len(clients) = %d, want 2", len(clients))
	}

	gmail, ok := clients[domain.AppGmail]
	if !ok {
		t.Fatal("missing gmail client")
	}

	if gmail.ClientID != "id-1" || gmail.ClientSecret != "secret-1" || gmail.TokenURL != "https://oauth.example.com/gmail/token" {
		t.Fatalf("gmail client = %+v", gmail)
	}
}

func TestParseOAuthClientsRejectsMalformedEntry(t *testing.T) {
	_, err := ParseOAuthClients([]string{"gmail:id-1:secret-1"})
	if err == nil {
		t.Fatal("ParseOAuthClients() expected error for entry missing token url")
	}
}

func TestParseOAuthClientsEmpty(t *testing.T) {
	clients, err := ParseOAuthClients(nil)
	if err != nil {
		t.Fatalf("ParseOAuthClients(nil) unexpected error: %v", err)
	}

	if len(clients) != 0 {
		t.Fatalf("len(clients) = %d, want 0", len(clients))
	}
}
