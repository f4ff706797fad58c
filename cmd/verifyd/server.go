package main

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

const (
	pinThreshold = 2000
	otpThreshold = 10000

	otpLifetime = 5 * time.Minute
	pinLifetime = 10 * time.Minute
	otpMaxTries = 3

	maxEnrollImages = 5
)

type user struct {
	name     string
	email    string
	passHash []byte
	pinHash  []byte
	enrolled bool
}

// attempt is one pending authorization: the idempotency key of the
// create-order call that opened it, the demanded factor, and whether the
// factor has been verified since.
type attempt struct {
	key      string
	amount   float64
	needOTP  bool
	needPIN  bool
	otpCode  string
	otpTries int
	factorOK bool
	created  time.Time
}

type order struct {
	id      string
	amount  int64 // paise
	email   string
	settled bool
}

type server struct {
	log    *slog.Logger
	secret []byte
	keyID  string
	now    func() time.Time

	mu       sync.Mutex
	users    map[string]*user    // by email
	tokens   map[string]string   // bearer token -> email
	attempts map[string]*attempt // by email; one pending per user
	orders   map[string]*order
}

func newServer(logger *slog.Logger, secret, keyID string) *server {
	return &server{
		log:      logger,
		secret:   []byte(secret),
		keyID:    keyID,
		now:      time.Now,
		users:    make(map[string]*user),
		tokens:   make(map[string]string),
		attempts: make(map[string]*attempt),
		orders:   make(map[string]*order),
	}
}

// seedUser registers an account with a bcrypt-hashed password and PIN.
func (s *server) seedUser(name, email, password, pin string, enrolled bool) error {
	ph, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	nh, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.users[email] = &user{name: name, email: email, passHash: ph, pinHash: nh, enrolled: enrolled}
	s.mu.Unlock()
	return nil
}

// routes mounts every endpoint. Middleware is the caller's concern.
func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/biometric/register-hand", s.handleEnroll).Methods(http.MethodPost)
	r.HandleFunc("/payment/create-order", s.handleCreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/payment/verify-otp", s.handleVerifyOTP).Methods(http.MethodPost)
	r.HandleFunc("/payment/verify-pin", s.handleVerifyPIN).Methods(http.MethodPost)
	r.HandleFunc("/payment/verify-payment", s.handleVerifyPayment).Methods(http.MethodPost)
	r.HandleFunc("/checkout/{order}/pay", func(w http.ResponseWriter, req *http.Request) {
		s.handleCheckoutPay(w, req, mux.Vars(req)["order"])
	}).Methods(http.MethodPost)
	return r
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "malformed request", "bad_json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[in.Email]
	if !ok || bcrypt.CompareHashAndPassword(u.passHash, []byte(in.Password)) != nil {
		writeErr(w, 401, "invalid email or password", "bad_credentials")
		return
	}
	token := uuid.NewString()
	s.tokens[token] = u.email
	writeJSON(w, 200, map[string]string{
		"access_token": token,
		"name":         u.name,
		"email":        u.email,
	})
}

// authed resolves the bearer token to a user. Callers must not hold s.mu.
func (s *server) authed(r *http.Request) (*user, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, prefix) {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[strings.TrimPrefix(h, prefix)]
	if !ok {
		return nil, false
	}
	u, ok := s.users[email]
	return u, ok
}

func (s *server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authed(r)
	if !ok {
		writeErr(w, 401, "authentication required", "no_session")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeErr(w, 400, "malformed upload", "bad_multipart")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeErr(w, 400, "no hand images supplied", "no_images")
		return
	}
	if len(files) > maxEnrollImages {
		writeErr(w, 400, fmt.Sprintf("at most %d images accepted", maxEnrollImages), "too_many_images")
		return
	}

	s.mu.Lock()
	u.enrolled = true
	s.mu.Unlock()
	s.log.Info("hand enrolled", "email", u.email, "images", len(files))
	writeJSON(w, 200, map[string]string{"message": "hand registered"})
}

func (s *server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authed(r)
	if !ok {
		writeErr(w, 401, "authentication required", "no_session")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeErr(w, 400, "malformed upload", "bad_multipart")
		return
	}
	if len(r.MultipartForm.File["image"]) == 0 {
		writeErr(w, 400, "biometric image missing", "no_image")
		return
	}
	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil || amount <= 0 {
		writeErr(w, 422, "invalid amount", "bad_amount")
		return
	}
	if r.FormValue("recipient_name") == "" || r.FormValue("account_number") == "" || r.FormValue("ifsc_code") == "" {
		writeErr(w, 422, "recipient details incomplete", "bad_recipient")
		return
	}
	key := r.Header.Get("X-Idempotency-Key")
	if key == "" {
		writeErr(w, 400, "idempotency key missing", "no_idempotency_key")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// enrolled is written by handleEnroll under the same lock.
	if !u.enrolled {
		writeErr(w, 403, "biometric verification failed", "not_enrolled")
		return
	}

	// A resubmission of a verified attempt issues the order.
	if a := s.attempts[u.email]; a != nil && a.key == key && a.factorOK {
		delete(s.attempts, u.email)
		s.issueOrder(w, u, amount)
		return
	}

	switch {
	case amount >= otpThreshold:
		code, err := sixDigits()
		if err != nil {
			writeErr(w, 500, "could not issue code", "otp_failure")
			return
		}
		s.attempts[u.email] = &attempt{key: key, amount: amount, needOTP: true, otpCode: code, created: s.now()}
		s.log.Info("otp issued", "email", u.email, "code", code)
		writeJSON(w, 200, map[string]any{
			"otp_required": true,
			"message":      "high-value transfer: one-time code required",
		})
	case amount >= pinThreshold:
		s.attempts[u.email] = &attempt{key: key, amount: amount, needPIN: true, created: s.now()}
		writeJSON(w, 200, map[string]any{
			"pin_required": true,
			"message":      "transaction PIN required",
		})
	default:
		s.issueOrder(w, u, amount)
	}
}

// issueOrder mints a gateway order for amount. Caller holds s.mu.
func (s *server) issueOrder(w http.ResponseWriter, u *user, amount float64) {
	o := &order{
		id:     "order_" + uuid.NewString(),
		amount: int64(amount * 100),
		email:  u.email,
	}
	s.orders[o.id] = o
	s.log.Info("order issued", "email", u.email, "order", o.id, "amount", amount)
	writeJSON(w, 200, map[string]any{
		"order_id": o.id,
		"amount":   o.amount,
		"currency": "INR",
		"key_id":   s.keyID,
	})
}

func (s *server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authed(r)
	if !ok {
		writeErr(w, 401, "authentication required", "no_session")
		return
	}
	var in struct {
		OTP    string  `json:"otp"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "malformed request", "bad_json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.attempts[u.email]
	if a == nil || !a.needOTP {
		writeErr(w, 400, "no one-time code pending", "no_pending_otp")
		return
	}
	if s.now().Sub(a.created) > otpLifetime {
		delete(s.attempts, u.email)
		writeErr(w, 403, "one-time code expired", "otp_expired")
		return
	}
	if in.OTP != a.otpCode {
		a.otpTries++
		if a.otpTries >= otpMaxTries {
			delete(s.attempts, u.email)
			writeErr(w, 403, "too many incorrect codes", "otp_attempts_exhausted")
			return
		}
		writeErr(w, 403, "incorrect one-time code", "otp_invalid")
		return
	}
	a.factorOK = true
	writeJSON(w, 200, map[string]string{"message": "code verified"})
}

func (s *server) handleVerifyPIN(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authed(r)
	if !ok {
		writeErr(w, 401, "authentication required", "no_session")
		return
	}
	var in struct {
		PIN    string  `json:"pin"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "malformed request", "bad_json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.attempts[u.email]
	if a == nil || !a.needPIN {
		writeErr(w, 400, "no PIN challenge pending", "no_pending_pin")
		return
	}
	if s.now().Sub(a.created) > pinLifetime {
		delete(s.attempts, u.email)
		writeErr(w, 403, "PIN challenge expired", "pin_expired")
		return
	}
	if bcrypt.CompareHashAndPassword(u.pinHash, []byte(in.PIN)) != nil {
		writeErr(w, 403, "incorrect transaction PIN", "pin_invalid")
		return
	}
	a.factorOK = true
	writeJSON(w, 200, map[string]string{"message": "PIN verified"})
}

func (s *server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authed(r)
	if !ok {
		writeErr(w, 401, "authentication required", "no_session")
		return
	}
	var in struct {
		PaymentID string `json:"gateway_payment_id"`
		OrderID   string `json:"gateway_order_id"`
		Signature string `json:"gateway_signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, 400, "malformed request", "bad_json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[in.OrderID]
	if !ok || o.email != u.email {
		writeErr(w, 404, "unknown order", "no_order")
		return
	}
	if !hmac.Equal([]byte(s.sign(in.OrderID, in.PaymentID)), []byte(in.Signature)) {
		writeErr(w, 400, "payment could not be verified", "bad_signature")
		return
	}
	o.settled = true
	s.log.Info("order settled", "order", o.id, "payment", in.PaymentID)
	writeJSON(w, 200, map[string]string{"message": "payment verified"})
}

// handleCheckoutPay simulates the hosted checkout completing a payment.
func (s *server) handleCheckoutPay(w http.ResponseWriter, r *http.Request, orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		writeErr(w, 404, "unknown order", "no_order")
		return
	}
	paymentID := "pay_" + uuid.NewString()
	writeJSON(w, 200, map[string]string{
		"payment_id": paymentID,
		"order_id":   orderID,
		"signature":  s.sign(orderID, paymentID),
	})
}

// sign computes the settlement signature over an order/payment pair.
func (s *server) sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func sixDigits() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, message, reason string) {
	writeJSON(w, status, map[string]any{
		"detail": map[string]string{"message": message, "reason": reason},
	})
}
