package util

import (
	"testing"
	"time"

	"lms_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateJWT(model.ActorStudent, 42, "a@b.c", secret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	actor := claims.Actor()
	if actor.Kind != model.ActorStudent || actor.ID != 42 {
		t.Errorf("actor = %+v, want student:42", actor)
	}
	if claims.Email != "a@b.c" {
		t.Errorf("email = %q", claims.Email)
	}

	if _, err := ParseJWT(token, "wrong-secret"); err == nil {
		t.Errorf("wrong secret must not verify")
	}
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(model.ActorTeacher, 1, "t@b.c", "s", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseJWT(token, "s"); err == nil {
		t.Errorf("expired token must not verify")
	}
}
