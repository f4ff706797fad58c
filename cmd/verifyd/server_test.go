package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func newTestServer(t *testing.T, enrolled bool) (*httptest.Server, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := newServer(logger, "test-secret", "key_test")
	if err := srv.seedUser("Pat Example", "pat@example.test", "swordfish", "1234", enrolled); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)

	resp, err := http.Post(ts.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"pat@example.test","password":"swordfish"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("login returned no token")
	}
	return ts, out.AccessToken
}

func postJSON(t *testing.T, ts *httptest.Server, token, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, req)
}

func postOrder(t *testing.T, ts *httptest.Server, token, key string, amount float64) (int, map[string]any) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("image", "hand.jpg")
	if err != nil {
		t.Fatalf("image part: %v", err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("write image: %v", err)
	}
	fields := map[string]string{
		"amount":         fmt.Sprintf("%g", amount),
		"recipient_name": "Robin Vendor",
		"account_number": "0042424242",
		"ifsc_code":      "TEST0000042",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/payment/create-order", buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Idempotency-Key", key)
	return doRequest(t, req)
}

func postEnroll(t *testing.T, ts *httptest.Server, token string) int {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for i := 0; i < 3; i++ {
		part, err := w.CreateFormFile("images", fmt.Sprintf("hand-%d.jpg", i))
		if err != nil {
			t.Fatalf("image part: %v", err)
		}
		if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/biometric/register-hand", buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	status, _ := doRequest(t, req)
	return status
}

func doRequest(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, body
}

// Enrollment flips a flag other handlers read; both sides must go through
// the store lock so concurrent requests for one account stay race-free.
func TestConcurrentEnrollAndCreateOrder(t *testing.T) {
	ts, token := newTestServer(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if status := postEnroll(t, ts, token); status != 200 {
				t.Errorf("enroll status = %d", status)
			}
		}()
		go func() {
			defer wg.Done()
			status, _ := postOrder(t, ts, token, uuid.NewString(), 100)
			if status != 200 && status != 403 {
				t.Errorf("create-order status = %d", status)
			}
		}()
	}
	wg.Wait()

	// Once enrollment has landed, orders must succeed.
	if status, _ := postOrder(t, ts, token, uuid.NewString(), 100); status != 200 {
		t.Fatalf("post-enrollment order status = %d", status)
	}
}

func TestCreateOrderRequiresEnrollment(t *testing.T) {
	ts, token := newTestServer(t, false)
	status, body := postOrder(t, ts, token, uuid.NewString(), 100)
	if status != 403 {
		t.Fatalf("status = %d, want 403", status)
	}
	detail := body["detail"].(map[string]any)
	if detail["reason"] != "not_enrolled" {
		t.Fatalf("reason = %v", detail["reason"])
	}
}

func TestOrderTierGating(t *testing.T) {
	ts, token := newTestServer(t, true)

	if _, body := postOrder(t, ts, token, uuid.NewString(), 100); body["order_id"] == nil {
		t.Fatalf("low amount should issue an order, got %v", body)
	}
	if _, body := postOrder(t, ts, token, uuid.NewString(), 5000); body["pin_required"] != true {
		t.Fatalf("mid amount should demand a PIN, got %v", body)
	}
	if _, body := postOrder(t, ts, token, uuid.NewString(), 12000); body["otp_required"] != true {
		t.Fatalf("high amount should demand a code, got %v", body)
	}
}

func TestVerifiedPINUnlocksResubmission(t *testing.T) {
	ts, token := newTestServer(t, true)
	key := uuid.NewString()

	if _, body := postOrder(t, ts, token, key, 5000); body["pin_required"] != true {
		t.Fatalf("first submission should demand a PIN, got %v", body)
	}
	if status, _ := postJSON(t, ts, token, "/payment/verify-pin", `{"pin":"0000","amount":5000}`); status != 403 {
		t.Fatalf("wrong PIN status = %d, want 403", status)
	}
	if status, _ := postJSON(t, ts, token, "/payment/verify-pin", `{"pin":"1234","amount":5000}`); status != 200 {
		t.Fatalf("correct PIN status = %d, want 200", status)
	}
	status, body := postOrder(t, ts, token, key, 5000)
	if status != 200 || body["order_id"] == nil {
		t.Fatalf("resubmission should issue an order, got %d %v", status, body)
	}
}

func TestSettlementChecksSignature(t *testing.T) {
	ts, token := newTestServer(t, true)

	_, body := postOrder(t, ts, token, uuid.NewString(), 100)
	orderID, _ := body["order_id"].(string)
	if orderID == "" {
		t.Fatalf("no order issued: %v", body)
	}

	status, conf := postJSON(t, ts, "", "/checkout/"+orderID+"/pay", `{"key_id":"key_test","amount":10000,"currency":"INR"}`)
	if status != 200 {
		t.Fatalf("checkout status = %d", status)
	}

	forged := fmt.Sprintf(`{"gateway_payment_id":%q,"gateway_order_id":%q,"gateway_signature":"deadbeef","biometric_verified":true}`,
		conf["payment_id"], orderID)
	if status, _ := postJSON(t, ts, token, "/payment/verify-payment", forged); status != 400 {
		t.Fatalf("forged signature status = %d, want 400", status)
	}

	genuine := fmt.Sprintf(`{"gateway_payment_id":%q,"gateway_order_id":%q,"gateway_signature":%q,"biometric_verified":true}`,
		conf["payment_id"], orderID, conf["signature"])
	if status, _ := postJSON(t, ts, token, "/payment/verify-payment", genuine); status != 200 {
		t.Fatalf("genuine signature status = %d, want 200", status)
	}
}
