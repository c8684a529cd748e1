package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService(nil, "test-secret", time.Hour)

	u := &User{ID: 7, Email: "dev@example.com", Role: RoleDeveloper}
	token, err := svc.IssueToken(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "dev@example.com" || claims.Role != RoleDeveloper {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(nil, "secret-a", time.Hour)
	verifier := NewService(nil, "secret-b", time.Hour)

	token, err := issuer.IssueToken(&User{ID: 1, Email: "a@example.com", Role: RoleMember})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token signed with another secret should not parse")
	}
	if _, err := verifier.ParseToken("not-a-token"); err == nil {
		t.Fatal("garbage should not parse")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := NewService(nil, "test-secret", -time.Minute)
	token, err := svc.IssueToken(&User{ID: 1, Email: "a@example.com", Role: RoleMember})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatal("expired token should not parse")
	}
}
