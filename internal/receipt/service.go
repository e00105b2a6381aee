package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-scanner/internal/scanning"
)

// ErrNoImage is returned when a receipt has no stored image
var ErrNoImage = errors.New("receipt has no stored image")

// ErrPersist wraps failures to store an uploaded receipt or its image
var ErrPersist = errors.New("persisting receipt")

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidGenerator generates random UUIDs
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with a UUID generator and the wall clock
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: &uuidGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = repeatedSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	if ext != "" && unsafeFilenameChars.MatchString(ext[1:]) {
		ext = ""
	}

	return base + ext
}

// ProcessReceipt stores the image, analyzes it and inserts the normalized
// result. Either the receipt and its image are both stored or neither is.
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType, category string) (*Receipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("%w: saving file: %w", ErrPersist, err)
	}

	normalized, err := s.scanner.Analyze(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to analyze receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.removeFile(savedPath)
		return nil, fmt.Errorf("analyzing receipt: %w", err)
	}

	receipt := &Receipt{
		ID:          id,
		TimeScanned: now,
		Summary:     normalized.Summary,
		ItemListing: normalized.Table,
		Category:    strings.TrimSpace(category),
		Filename:    savedPath,
		ContentType: contentType,
		ImageSize:   len(data),
	}

	if err := s.db.InsertReceipt(receipt); err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("%w: saving receipt to database: %w", ErrPersist, err)
	}

	slog.Info("Receipt processed",
		"receipt_id", id,
		"items", len(receipt.ItemListing),
		"category", receipt.Category,
	)
	return receipt, nil
}

func (s *Service) removeFile(path string) {
	if err := s.storage.Delete(path); err != nil {
		slog.Warn("Failed to remove stored file", "filename", path, "error", err)
	}
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// SearchReceipts returns ranked summary views matching query, or every
// receipt newest first when query is blank
func (s *Service) SearchReceipts(query string) ([]SearchResult, error) {
	receipts, err := s.ListReceipts()
	if err != nil {
		return nil, err
	}
	return Search(receipts, query), nil
}

// DeleteReceipt removes a receipt and its file
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if receipt.HasImage() {
		s.removeFile(receipt.Filename)
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the stored image for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}
	if !receipt.HasImage() {
		return nil, "", ErrNoImage
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, receipt.ContentType, nil
}

// Thumbnail renders a PNG preview of the stored image
func (s *Service) Thumbnail(id string) ([]byte, error) {
	data, contentType, err := s.GetReceiptFile(id)
	if err != nil {
		return nil, err
	}
	thumb, err := makeThumbnail(data, contentType, ThumbnailWidth)
	if err != nil {
		return nil, fmt.Errorf("rendering thumbnail for %s: %w", id, err)
	}
	return thumb, nil
}

// Stats computes statistics for year; zero means the current year
func (s *Service) Stats(year int) (Stats, error) {
	if year == 0 {
		year = s.timeSource.Now().Year()
	}
	receipts, err := s.ListReceipts()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(receipts, year), nil
}

// Export writes the receipt history, newest first, as an XLSX workbook
func (s *Service) Export() ([]byte, error) {
	receipts, err := s.ListReceipts()
	if err != nil {
		return nil, err
	}
	ordered := make([]*Receipt, len(receipts))
	copy(ordered, receipts)
	sortNewestFirst(ordered)

	data, err := ExportXLSX(ordered)
	if err != nil {
		return nil, fmt.Errorf("exporting receipts: %w", err)
	}
	return data, nil
}
