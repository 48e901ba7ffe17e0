package storage_test

import (
	"context"
	"testing"
)

func TestConfigSetGetAndUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetConfig(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected missing key to report not found")
	}

	if err := s.SetConfig(ctx, "max_retries", "3"); err != nil {
		t.Fatal(err)
	}
	value, ok, err := s.GetConfig(ctx, "max_retries")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || value != "3" {
		t.Fatalf("expected (3, true), got (%q, %v)", value, ok)
	}

	if err := s.SetConfig(ctx, "max_retries", "5"); err != nil {
		t.Fatal(err)
	}
	value, _, err = s.GetConfig(ctx, "max_retries")
	if err != nil {
		t.Fatal(err)
	}
	if value != "5" {
		t.Fatalf("expected upsert to overwrite value, got %q", value)
	}
}

func TestGetAllConfig(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetConfig(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetConfig(ctx, "b", "2"); err != nil {
		t.Fatal(err)
	}

	all, err := s.GetAllConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if all["a"] != "1" || all["b"] != "2" {
		t.Fatalf("unexpected config snapshot: %v", all)
	}
}
