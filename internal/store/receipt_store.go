package store

import (
	"path/filepath"
	"sync"

	"palmpay/internal/domain"
)

const receiptsFilename = "receipts.json"

// ReceiptFileStore keeps local history of finalized payments.
type ReceiptFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewReceiptFileStore returns a ReceiptFileStore rooted at dir.
func NewReceiptFileStore(dir string) *ReceiptFileStore {
	return &ReceiptFileStore{dir: dir}
}

// AppendReceipt adds r to the history file.
func (s *ReceiptFileStore) AppendReceipt(r domain.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, receiptsFilename)
	var receipts []domain.Receipt
	if err := readJSON(path, &receipts); err != nil {
		return err
	}
	receipts = append(receipts, r)
	return writeJSON(path, receipts, 0o600)
}

// ListReceipts returns all recorded receipts in append order.
func (s *ReceiptFileStore) ListReceipts() ([]domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var receipts []domain.Receipt
	if err := readJSON(filepath.Join(s.dir, receiptsFilename), &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// Compile-time assertion that ReceiptFileStore implements domain.ReceiptStore.
var _ domain.ReceiptStore = (*ReceiptFileStore)(nil)
