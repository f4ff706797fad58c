package store

import (
	"errors"
	"testing"
	"time"

	"palmpay/internal/domain"
)

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessionFileStore(t.TempDir())

	want := domain.SessionContext{Name: "Asha Rao", Email: "asha@example.com", Token: "tok-123"}
	if err := s.SaveSession("hunter2", want); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, ok, err := s.LoadSession("hunter2")
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if !ok {
		t.Fatal("LoadSession reported no session")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSessionWrongPassphrase(t *testing.T) {
	s := NewSessionFileStore(t.TempDir())
	if err := s.SaveSession("correct", domain.SessionContext{Token: "tok"}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if _, _, err := s.LoadSession("incorrect"); !errors.Is(err, errWrongPassphrase) {
		t.Fatalf("err = %v, want errWrongPassphrase", err)
	}
}

func TestSessionMissingIsNotAnError(t *testing.T) {
	s := NewSessionFileStore(t.TempDir())
	_, ok, err := s.LoadSession("whatever")
	if err != nil || ok {
		t.Fatalf("LoadSession on empty dir: ok=%v err=%v", ok, err)
	}
}

func TestClearSession(t *testing.T) {
	s := NewSessionFileStore(t.TempDir())
	if err := s.SaveSession("pw", domain.SessionContext{Token: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearSession(); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if _, ok, err := s.LoadSession("pw"); err != nil || ok {
		t.Fatalf("session survived clear: ok=%v err=%v", ok, err)
	}
	// Clearing twice is fine.
	if err := s.ClearSession(); err != nil {
		t.Fatalf("second ClearSession: %v", err)
	}
}

func TestReceiptsAppendInOrder(t *testing.T) {
	s := NewReceiptFileStore(t.TempDir())
	for i, id := range []string{"order_1", "order_2", "order_3"} {
		r := domain.Receipt{
			OrderID:   id,
			Amount:    float64(100 * (i + 1)),
			CreatedAt: time.Now().UTC(),
		}
		if err := s.AppendReceipt(r); err != nil {
			t.Fatalf("AppendReceipt: %v", err)
		}
	}

	got, err := s.ListReceipts()
	if err != nil {
		t.Fatalf("ListReceipts: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d receipts, want 3", len(got))
	}
	for i, id := range []string{"order_1", "order_2", "order_3"} {
		if got[i].OrderID != id {
			t.Fatalf("receipt %d = %q, want %q", i, got[i].OrderID, id)
		}
	}
}
