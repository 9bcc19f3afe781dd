package handlers

import (
	"io"
	"strings"

	"github.com/cenovka/cenovka/app/dto"
	businessflow "github.com/cenovka/cenovka/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// UploadHandlerInterface defines the contract for upload handlers
type UploadHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Products(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// UploadHandler handles upload-related HTTP requests
type UploadHandler struct {
	flow      businessflow.UploadFlow
	validator *validator.Validate
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(flow businessflow.UploadFlow) *UploadHandler {
	return &UploadHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Upload
// @Description Ingest a spreadsheet file (multipart) or a pre-parsed product batch (JSON) as one upload.
// @Tags Uploads
// @Accept mpfd
// @Accept json
// @Produce json
// @Param file formData file false "Spreadsheet workbook (xlsx)"
// @Param request body dto.CreateUploadRequest false "JSON alternative with pre-parsed products"
// @Success 201 {object} dto.APIResponse{data=dto.CreateUploadResponse} "Upload created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or unparseable file"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/uploads [post]
func (h *UploadHandler) Create(c fiber.Ctx) error {
	contentType := c.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.createFromFile(c)
	}
	return h.createFromJSON(c)
}

func (h *UploadHandler) createFromFile(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || form == nil || len(form.File["file"]) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Spreadsheet file is required", "FILE_REQUIRED", nil)
	}
	fileHeader := form.File["file"][0]

	file, err := fileHeader.Open()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to open uploaded file", "FILE_READ_FAILED", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", "FILE_READ_FAILED", err.Error())
	}

	resp, err := h.flow.IngestSpreadsheet(c.Context(), fileHeader.Filename, data, clientMetadata(c))
	if err != nil {
		return handleFlowError(c, err)
	}

	return successResponse(c, fiber.StatusCreated, resp.Message, resp)
}

func (h *UploadHandler) createFromJSON(c fiber.Ctx) error {
	var req dto.CreateUploadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	resp, err := h.flow.CreateUploadWithProducts(c.Context(), &req, clientMetadata(c))
	if err != nil {
		return handleFlowError(c, err)
	}

	return successResponse(c, fiber.StatusCreated, resp.Message, resp)
}

// List Uploads
// @Description List all uploads, newest first, with product counts.
// @Tags Uploads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListUploadsResponse} "Uploads retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/uploads [get]
func (h *UploadHandler) List(c fiber.Ctx) error {
	resp, err := h.flow.ListUploads(c.Context())
	if err != nil {
		return handleFlowError(c, err)
	}
	return successResponse(c, fiber.StatusOK, resp.Message, resp)
}

// List Upload Products
// @Description List the products of one upload with optional search/category filtering and summary statistics.
// @Tags Uploads
// @Produce json
// @Param upload_id path string true "Upload ID"
// @Param search query string false "Case-insensitive name/category search"
// @Param category query string false "Category filter ('all' keeps every category)"
// @Success 200 {object} dto.APIResponse{data=dto.ListProductsResponse} "Products retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Upload not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/uploads/{upload_id}/products [get]
func (h *UploadHandler) Products(c fiber.Ctx) error {
	req := dto.ListProductsRequest{
		UploadID: c.Params("upload_id"),
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	resp, err := h.flow.GetUploadProducts(c.Context(), &req)
	if err != nil {
		return handleFlowError(c, err)
	}
	return successResponse(c, fiber.StatusOK, resp.Message, resp)
}

// Delete Upload
// @Description Delete an upload by id; all of its products are removed with it.
// @Tags Uploads
// @Produce json
// @Param upload_id path string true "Upload ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteUploadResponse} "Upload deleted successfully"
// @Failure 404 {object} dto.APIResponse "Upload not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/uploads/{upload_id} [delete]
func (h *UploadHandler) Delete(c fiber.Ctx) error {
	resp, err := h.flow.DeleteUpload(c.Context(), c.Params("upload_id"), clientMetadata(c))
	if err != nil {
		return handleFlowError(c, err)
	}
	return successResponse(c, fiber.StatusOK, resp.Message, resp)
}
