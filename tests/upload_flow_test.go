package tests

import (
	"testing"

	"github.com/cenovka/cenovka/app/dto"
	"github.com/cenovka/cenovka/app/services"
	businessflow "github.com/cenovka/cenovka/business_flow"
	"github.com/cenovka/cenovka/config"
	"github.com/cenovka/cenovka/repository"
	testingutil "github.com/cenovka/cenovka/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newFlows(testDB *testingutil.TestDB) (businessflow.UploadFlow, businessflow.PriceHistoryFlow) {
	uploadRepo := repository.NewUploadRepository(testDB.DB)
	productRepo := repository.NewProductRepository(testDB.DB)
	cache := services.NewNoopPriceHistoryCache()

	uploadFlow := businessflow.NewUploadFlow(
		uploadRepo,
		productRepo,
		services.NewSpreadsheetParser(),
		cache,
		config.UploadConfig{MaxFileSize: 1 << 20, AllowedExtensions: []string{".xlsx"}},
	)
	return uploadFlow, businessflow.NewPriceHistoryFlow(productRepo, cache)
}

func buildTestWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestUploadFlowEndToEnd(t *testing.T) {
	requirePostgres(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		uploadFlow, priceHistoryFlow := newFlows(testDB)
		ctx := testingutil.CreateTestContext()

		january := buildTestWorkbook(t, [][]any{
			{"Produkt", "Kategorie", "CZK"},
			{"Mléko", "Potraviny", "25.50"},
			{"Chléb", "Potraviny", "32"},
		})
		february := buildTestWorkbook(t, [][]any{
			{"Produkt", "Kategorie", "CZK"},
			{"mléko", "Potraviny", "27.90"},
			{"Rohlík", "Potraviny", "N/A"},
		})

		first, err := uploadFlow.IngestSpreadsheet(ctx, "leden.xlsx", january, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), first.Upload.ProductCount)

		second, err := uploadFlow.IngestSpreadsheet(ctx, "unor.xlsx", february, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), second.Upload.ProductCount)
		require.Len(t, second.ParseErrors, 1)
		assert.Equal(t, "row 2: invalid price value 'N/A'", second.ParseErrors[0])

		t.Run("ListUploads", func(t *testing.T) {
			listed, err := uploadFlow.ListUploads(ctx)
			require.NoError(t, err)
			require.Len(t, listed.Uploads, 2)
		})

		t.Run("GetUploadProducts", func(t *testing.T) {
			resp, err := uploadFlow.GetUploadProducts(ctx, &dto.ListProductsRequest{
				UploadID: first.Upload.ID,
				Search:   "mléko",
			})
			require.NoError(t, err)
			require.Len(t, resp.Products, 1)
			assert.Equal(t, "Mléko", resp.Products[0].Name)
			assert.Equal(t, []string{"Potraviny"}, resp.Categories)
		})

		t.Run("PriceHistoryAcrossUploads", func(t *testing.T) {
			resp, err := priceHistoryFlow.BuildPriceHistory(ctx)
			require.NoError(t, err)
			require.Len(t, resp.Items, 2)

			milk := resp.Items[0]
			assert.Equal(t, "Mléko", milk.Name)
			require.Len(t, milk.PriceHistory, 2)
			assert.Equal(t, 25.5, milk.PriceHistory[0].Price)
			assert.Equal(t, 27.9, milk.PriceHistory[1].Price)
		})

		t.Run("DeleteUpload", func(t *testing.T) {
			_, err := uploadFlow.DeleteUpload(ctx, second.Upload.ID, nil)
			require.NoError(t, err)

			_, err = uploadFlow.GetUploadProducts(ctx, &dto.ListProductsRequest{UploadID: second.Upload.ID})
			require.Error(t, err)
			assert.True(t, businessflow.IsUploadNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
