package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/logging"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clicon/internal/server/storage"
	"github.com/google/uuid"
)

const (
	ProductsPerPage    = 5
	ProductFilterLimit = 5
)

var newProductID = func() string { return uuid.NewString() }

// Upload is one image part of a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProductService manages the catalog and its images.
type ProductService struct {
	repomanager    repomanager.RepositoryManager
	uploader       storage.Uploader
	logger         logging.Logger
	dbTimeout      time.Duration
	storageTimeout time.Duration
}

func NewProductService(m repomanager.RepositoryManager, u storage.Uploader, cfg *config.Config, logger logging.Logger) *ProductService {
	return &ProductService{
		repomanager:    m,
		uploader:       u,
		logger:         logger.With("module", "products"),
		dbTimeout:      cfg.DBTimeout,
		storageTimeout: cfg.StorageTimeout,
	}
}

// Create stores p under a fresh id. Client supplied ids and image URLs are
// ignored.
func (s *ProductService) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if p.Price < 0 || math.IsNaN(p.Price) {
		return nil, fmt.Errorf("%w: price must not be negative", common.ErrorValidation)
	}
	if p.OfferPrice != nil && (*p.OfferPrice < 0 || math.IsNaN(*p.OfferPrice)) {
		return nil, fmt.Errorf("%w: offer price must not be negative", common.ErrorValidation)
	}

	p.ID = newProductID()
	p.ImageURLs = []string{}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	created, err := s.repomanager.Products().Create(ctx, &p)
	if err != nil {
		return nil, passThrough(err)
	}
	return created, nil
}

// UploadImage stores every upload and appends its public URL to the
// product. It stops at the first failure; URLs appended before it are kept.
func (s *ProductService) UploadImage(ctx context.Context, id string, uploads []Upload) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no images supplied", common.ErrorValidation)
	}

	repo := s.repomanager.Products()

	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	for _, up := range uploads {
		sctx, cancel := bounded(ctx, s.storageTimeout)
		url, err := s.uploader.Upload(sctx, up.Filename, up.ContentType, up.Body, up.Size)
		cancel()
		if err != nil {
			s.logger.Error(ctx, "image upload failed", "product_id", id, "filename", up.Filename, "error", err)
			return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}

		dctx, cancel := bounded(ctx, s.dbTimeout)
		err = repo.AppendImage(dctx, id, url)
		cancel()
		if err != nil {
			return nil, passThrough(err)
		}
	}

	return s.get(ctx, id)
}

// List returns page (1-based) of the catalog; pages below 1 read as 1.
func (s *ProductService) List(ctx context.Context, page int) ([]*models.Product, error) {
	if page < 1 {
		page = 1
	}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	list, err := s.repomanager.Products().List(ctx, (page-1)*ProductsPerPage, ProductsPerPage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}

func (s *ProductService) Filter(ctx context.Context, f models.ProductFilter) ([]*models.Product, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Category = strings.TrimSpace(f.Category)

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	list, err := s.repomanager.Products().Filter(ctx, f, ProductFilterLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}

func (s *ProductService) get(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	p, err := s.repomanager.Products().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, passThrough(err)
	}
	return p, nil
}
