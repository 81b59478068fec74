package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/slip"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/storage"
)

type FileService interface {
	// SaveSlipPDF renders doc and stores it under slips/<period>/<slip number>.pdf.
	SaveSlipPDF(ctx context.Context, doc slip.Document) (string, error)
	// RenderSlipPDF renders doc without storing it.
	RenderSlipPDF(ctx context.Context, doc slip.Document) (io.ReadCloser, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func SlipKey(period, slipNumber string) string {
	return path.Join("slips", period, slipNumber+".pdf")
}

func (s *fileServiceImpl) SaveSlipPDF(ctx context.Context, doc slip.Document) (string, error) {
	var buf bytes.Buffer
	if err := slip.Render(&buf, doc); err != nil {
		return "", err
	}

	key, err := s.storage.Put(ctx, SlipKey(doc.Period, doc.SlipNumber), &buf)
	if err != nil {
		return "", fmt.Errorf("failed to store slip %s: %w", doc.SlipNumber, err)
	}
	return key, nil
}

func (s *fileServiceImpl) RenderSlipPDF(ctx context.Context, doc slip.Document) (io.ReadCloser, error) {
	var buf bytes.Buffer
	if err := slip.Render(&buf, doc); err != nil {
		return nil, err
	}
	return io.NopCloser(&buf), nil
}

func (s *fileServiceImpl) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, key)
}

func (s *fileServiceImpl) Exists(ctx context.Context, key string) (bool, error) {
	return s.storage.Exists(ctx, key)
}
