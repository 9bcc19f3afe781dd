package businessflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenovka/cenovka/app/dto"
	"github.com/cenovka/cenovka/app/services"
	"github.com/cenovka/cenovka/config"
	"github.com/cenovka/cenovka/models"
	"github.com/cenovka/cenovka/repository"
	"github.com/cenovka/cenovka/utils"
	"github.com/google/uuid"
)

// UploadFlow provides use cases for ingesting spreadsheets and managing the
// resulting upload batches.
type UploadFlow interface {
	IngestSpreadsheet(ctx context.Context, filename string, data []byte, metadata *ClientMetadata) (*dto.CreateUploadResponse, error)
	CreateUploadWithProducts(ctx context.Context, req *dto.CreateUploadRequest, metadata *ClientMetadata) (*dto.CreateUploadResponse, error)
	ListUploads(ctx context.Context) (*dto.ListUploadsResponse, error)
	GetUploadProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	DeleteUpload(ctx context.Context, uploadID string, metadata *ClientMetadata) (*dto.DeleteUploadResponse, error)
}

// UploadFlowImpl implements UploadFlow
type UploadFlowImpl struct {
	uploadRepo  repository.UploadRepository
	productRepo repository.ProductRepository
	parser      services.SpreadsheetParser
	cache       services.PriceHistoryCache
	uploadCfg   config.UploadConfig
}

// NewUploadFlow creates a new upload flow
func NewUploadFlow(uploadRepo repository.UploadRepository, productRepo repository.ProductRepository, parser services.SpreadsheetParser, cache services.PriceHistoryCache, uploadCfg config.UploadConfig) UploadFlow {
	return &UploadFlowImpl{
		uploadRepo:  uploadRepo,
		productRepo: productRepo,
		parser:      parser,
		cache:       cache,
		uploadCfg:   uploadCfg,
	}
}

// IngestSpreadsheet is the primary ingestion entry point: parse the workbook
// bytes and persist the extracted rows as one upload batch in a single call.
// Per-row parse errors do not abort the batch; a file from which nothing
// parses is rejected before any persistence attempt.
func (f *UploadFlowImpl) IngestSpreadsheet(ctx context.Context, filename string, data []byte, metadata *ClientMetadata) (*dto.CreateUploadResponse, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, NewBusinessError("FILENAME_REQUIRED", "filename is required", ErrFilenameRequired)
	}
	if len(data) == 0 {
		return nil, NewBusinessError("FILE_REQUIRED", "spreadsheet file is required", ErrFileRequired)
	}
	if f.uploadCfg.MaxFileSize > 0 && int64(len(data)) > f.uploadCfg.MaxFileSize {
		return nil, NewBusinessErrorf("FILE_TOO_LARGE", "file size %d exceeds the %d byte limit", ErrFileTooLarge, len(data), f.uploadCfg.MaxFileSize)
	}
	if !f.extensionAllowed(filename) {
		return nil, NewBusinessErrorf("UNSUPPORTED_FILE_TYPE", "unsupported file type %q", ErrUnsupportedFile, filepath.Ext(filename))
	}

	parsed := f.parser.ParseWorkbook(data)
	if len(parsed.Products) == 0 {
		detail := "file contains no products"
		if len(parsed.Errors) > 0 {
			detail = parsed.Errors[0]
		}
		return nil, NewBusinessError("NO_PRODUCTS_PARSED", detail, ErrNoProductsParsed)
	}

	log.Printf("ingesting %q: %d products parsed, %d rows skipped (request %s)",
		filename, len(parsed.Products), len(parsed.Errors), requestID(metadata))

	return f.createBatch(ctx, filename, parsed.Products, parsed.Errors)
}

// CreateUploadWithProducts persists a batch of pre-parsed products under a new
// upload. An explicit empty products list is valid (an upload with zero
// products); a missing list is a validation failure.
func (f *UploadFlowImpl) CreateUploadWithProducts(ctx context.Context, req *dto.CreateUploadRequest, metadata *ClientMetadata) (*dto.CreateUploadResponse, error) {
	if req == nil || strings.TrimSpace(req.Filename) == "" {
		return nil, NewBusinessError("FILENAME_REQUIRED", "filename is required", ErrFilenameRequired)
	}
	if req.Products == nil {
		return nil, NewBusinessError("PRODUCTS_REQUIRED", "products list is required", ErrProductsRequired)
	}

	rows := make([]services.ParsedProduct, 0, len(req.Products))
	for _, p := range req.Products {
		rows = append(rows, services.ParsedProduct{
			Name:       p.Name,
			TotalPrice: p.TotalPrice,
			Category:   p.Category,
		})
	}

	return f.createBatch(ctx, req.Filename, rows, nil)
}

// createBatch implements the atomic create contract: insert the upload and
// verify it, insert all products in one bulk write and verify a non-zero
// count, and roll the upload back if product verification fails. The caller
// never observes an upload with zero products when products were supplied.
func (f *UploadFlowImpl) createBatch(ctx context.Context, filename string, rows []services.ParsedProduct, parseErrors []string) (*dto.CreateUploadResponse, error) {
	upload := &models.Upload{
		ID:          uuid.NewString(),
		Filename:    filename,
		ParseErrors: parseErrors,
	}

	if err := f.uploadRepo.Save(ctx, upload); err != nil {
		return nil, NewBusinessError("UPLOAD_CREATION_FAILED", "failed to create upload", errors.Join(ErrUploadCreationFailed, err))
	}

	// Verify the upload write before touching products
	saved, err := f.uploadRepo.ByID(ctx, upload.ID)
	if err != nil {
		return nil, NewBusinessError("UPLOAD_CREATION_FAILED", "failed to verify upload", errors.Join(ErrUploadCreationFailed, err))
	}
	if saved == nil {
		return nil, NewBusinessError("UPLOAD_CREATION_FAILED", "upload creation failed", ErrUploadCreationFailed)
	}

	if len(rows) == 0 {
		f.cache.Invalidate(ctx)
		return f.buildCreateResponse(saved, []*models.Product{}, parseErrors), nil
	}

	products := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, &models.Product{
			ID:         uuid.NewString(),
			UploadID:   upload.ID,
			Name:       row.Name,
			TotalPrice: utils.ParseDecimal(row.TotalPrice),
			Category:   row.Category,
		})
	}

	if err := f.productRepo.SaveBatch(ctx, products); err != nil {
		f.rollbackUpload(ctx, upload.ID)
		return nil, NewBusinessError("PRODUCTS_INSERTION_FAILED", "failed to insert products", errors.Join(ErrProductsInsertionFailed, err))
	}

	// Verify the bulk write; zero rows after a non-empty insert is a fatal
	// persistence failure and must not leave the upload behind.
	created, err := f.productRepo.ByUploadID(ctx, upload.ID)
	if err != nil {
		f.rollbackUpload(ctx, upload.ID)
		return nil, NewBusinessError("PRODUCTS_INSERTION_FAILED", "failed to verify products", errors.Join(ErrProductsInsertionFailed, err))
	}
	if len(created) == 0 {
		f.rollbackUpload(ctx, upload.ID)
		return nil, NewBusinessError("PRODUCTS_INSERTION_FAILED", "products insertion failed", ErrProductsInsertionFailed)
	}

	f.cache.Invalidate(ctx)

	return f.buildCreateResponse(saved, created, parseErrors), nil
}

func (f *UploadFlowImpl) rollbackUpload(ctx context.Context, uploadID string) {
	log.Printf("rolling back upload %s after products insertion failure", uploadID)
	if err := f.uploadRepo.Delete(ctx, uploadID); err != nil {
		log.Printf("rollback of upload %s failed: %v", uploadID, err)
	}
}

// ListUploads lists all uploads, newest first, with their product counts
func (f *UploadFlowImpl) ListUploads(ctx context.Context) (*dto.ListUploadsResponse, error) {
	uploads, err := f.uploadRepo.ListAll(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_UPLOADS_FAILED", "failed to list uploads", err)
	}

	counts, err := f.productRepo.CountByUpload(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_UPLOADS_FAILED", "failed to count products", err)
	}

	items := make([]dto.UploadItem, 0, len(uploads))
	for _, u := range uploads {
		items = append(items, newUploadItem(u, counts[u.ID]))
	}

	return &dto.ListUploadsResponse{
		Message: "Uploads retrieved successfully",
		Uploads: items,
	}, nil
}

// GetUploadProducts returns one upload's products together with the derived
// filtering view-model (categories, stats).
func (f *UploadFlowImpl) GetUploadProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	if req == nil || strings.TrimSpace(req.UploadID) == "" {
		return nil, NewBusinessError("UPLOAD_NOT_FOUND", "upload not found", ErrUploadNotFound)
	}

	upload, err := f.uploadRepo.ByID(ctx, req.UploadID)
	if err != nil {
		return nil, NewBusinessError("GET_UPLOAD_FAILED", "failed to fetch upload", err)
	}
	if upload == nil {
		return nil, NewBusinessErrorf("UPLOAD_NOT_FOUND", "upload %s not found", ErrUploadNotFound, req.UploadID)
	}

	products, err := f.productRepo.ByUploadID(ctx, req.UploadID)
	if err != nil {
		return nil, NewBusinessError("GET_PRODUCTS_FAILED", "failed to fetch products", err)
	}

	view := BuildCatalogView(products, req.Search, req.Category)

	return &dto.ListProductsResponse{
		Message:    "Products retrieved successfully",
		UploadID:   upload.ID,
		Products:   view.Products,
		Categories: view.Categories,
		Stats:      dto.NewStatsItem(view.Stats),
	}, nil
}

// DeleteUpload removes an upload by id; its products go with it as an
// inseparable effect.
func (f *UploadFlowImpl) DeleteUpload(ctx context.Context, uploadID string, metadata *ClientMetadata) (*dto.DeleteUploadResponse, error) {
	upload, err := f.uploadRepo.ByID(ctx, uploadID)
	if err != nil {
		return nil, NewBusinessError("DELETE_UPLOAD_FAILED", "failed to fetch upload", err)
	}
	if upload == nil {
		return nil, NewBusinessErrorf("UPLOAD_NOT_FOUND", "upload %s not found", ErrUploadNotFound, uploadID)
	}

	if err := f.uploadRepo.Delete(ctx, uploadID); err != nil {
		return nil, NewBusinessError("DELETE_UPLOAD_FAILED", "failed to delete upload", err)
	}

	f.cache.Invalidate(ctx)

	log.Printf("deleted upload %s (%q) (request %s)", uploadID, upload.Filename, requestID(metadata))

	return &dto.DeleteUploadResponse{
		Message: "Upload deleted successfully",
		ID:      uploadID,
	}, nil
}

func (f *UploadFlowImpl) extensionAllowed(filename string) bool {
	if len(f.uploadCfg.AllowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range f.uploadCfg.AllowedExtensions {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

func newUploadItem(u *models.Upload, productCount int64) dto.UploadItem {
	return dto.UploadItem{
		ID:           u.ID,
		Filename:     u.Filename,
		UploadedAt:   utils.TimeToUTC(u.UploadedAt).Format(time.RFC3339),
		ProductCount: productCount,
		ParseErrors:  u.ParseErrors,
	}
}

func (f *UploadFlowImpl) buildCreateResponse(upload *models.Upload, products []*models.Product, parseErrors []string) *dto.CreateUploadResponse {
	items := make([]dto.ProductItem, 0, len(products))
	for _, p := range products {
		items = append(items, newProductItem(p))
	}

	message := fmt.Sprintf("Upload created with %d products", len(products))
	if len(parseErrors) > 0 {
		message = fmt.Sprintf("%s (%d rows skipped)", message, len(parseErrors))
	}

	return &dto.CreateUploadResponse{
		Message:     message,
		Upload:      newUploadItem(upload, int64(len(products))),
		Products:    items,
		ParseErrors: parseErrors,
	}
}

func newProductItem(p *models.Product) dto.ProductItem {
	return dto.ProductItem{
		ID:                  p.ID,
		Name:                p.Name,
		TotalPrice:          p.TotalPrice,
		TotalPriceFormatted: utils.FormatCurrency(p.TotalPrice),
		Category:            p.Category,
	}
}

func requestID(metadata *ClientMetadata) string {
	if metadata == nil || metadata.RequestID == "" {
		return "-"
	}
	return metadata.RequestID
}
