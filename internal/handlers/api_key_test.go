package handlers

import (
	"strings"
	"testing"
)

func TestHandleListAPIKeys(t *testing.T) {
	db := newTestDB(t)
	handler := NewAPIKeyHandler(db)

	// An empty list must serialize as [], not null.
	listResp, err := handler.HandleList(identityCtx("b@x.com"), nil)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if listResp.Body == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(listResp.Body) != 0 {
		t.Fatalf("expected no keys, got %d", len(listResp.Body))
	}

	createReq := CreateAPIKeyInput{}
	createReq.Body.Name = "ci"
	createResp, err := handler.HandleCreate(identityCtx("b@x.com"), &createReq)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if createResp.Body.Key == "" {
		t.Fatal("expected the full key on creation")
	}

	listResp, err = handler.HandleList(identityCtx("b@x.com"), nil)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(listResp.Body) != 1 {
		t.Fatalf("expected 1 key, got %d", len(listResp.Body))
	}
	masked := listResp.Body[0].Key
	if !strings.HasPrefix(masked, "...") || masked == createResp.Body.Key {
		t.Errorf("expected a masked key, got %q", masked)
	}

	// Other identities see nothing.
	other, err := handler.HandleList(identityCtx("c@x.com"), nil)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(other.Body) != 0 {
		t.Errorf("expected no keys for another identity, got %d", len(other.Body))
	}
}
