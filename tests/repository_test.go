// Package tests contains integration test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/cenovka/cenovka/models"
	"github.com/cenovka/cenovka/repository"
	testingutil "github.com/cenovka/cenovka/testing"
	"github.com/cenovka/cenovka/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePostgres(t *testing.T) {
	t.Helper()
	if !testingutil.PostgresAvailable() {
		t.Skip("PostgreSQL is not available; skipping integration test")
	}
}

func TestUploadRepository(t *testing.T) {
	requirePostgres(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUploadRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndByID", func(t *testing.T) {
			upload := &models.Upload{Filename: "nakup.xlsx"}
			require.NoError(t, repo.Save(ctx, upload))
			assert.NotEmpty(t, upload.ID)
			assert.False(t, upload.UploadedAt.IsZero())

			found, err := repo.ByID(ctx, upload.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, upload.ID, found.ID)
			assert.Equal(t, "nakup.xlsx", found.Filename)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, "00000000-0000-0000-0000-000000000000")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ParseErrorsRoundTrip", func(t *testing.T) {
			upload := &models.Upload{
				Filename:    "errors.xlsx",
				ParseErrors: []string{"row 1: invalid price value 'N/A'", "row 3: invalid price value ''"},
			}
			require.NoError(t, repo.Save(ctx, upload))

			found, err := repo.ByID(ctx, upload.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, []string(upload.ParseErrors), []string(found.ParseErrors))
		})

		t.Run("ListAllNewestFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			older := &models.Upload{Filename: "leden.xlsx", UploadedAt: utils.UTCNow().Add(-48 * time.Hour)}
			newer := &models.Upload{Filename: "unor.xlsx", UploadedAt: utils.UTCNow()}
			require.NoError(t, repo.Save(ctx, older))
			require.NoError(t, repo.Save(ctx, newer))

			uploads, err := repo.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, uploads, 2)
			assert.Equal(t, "unor.xlsx", uploads[0].Filename)
			assert.Equal(t, "leden.xlsx", uploads[1].Filename)
		})

		t.Run("ByFilter", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			upload, err := testDB.CreateTestUpload("brezen.xlsx")
			require.NoError(t, err)

			filename := "brezen.xlsx"
			uploads, err := repo.ByFilter(ctx, models.UploadFilter{Filename: &filename}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, uploads, 1)
			assert.Equal(t, upload.ID, uploads[0].ID)
		})

		t.Run("DeleteCascadesToProducts", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			upload, err := testDB.CreateTestUpload("smazat.xlsx")
			require.NoError(t, err)
			_, err = testDB.CreateTestProduct(upload.ID, "Mléko", 25.5, nil)
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, upload.ID))

			found, err := repo.ByID(ctx, upload.ID)
			require.NoError(t, err)
			assert.Nil(t, found)

			productRepo := repository.NewProductRepository(testDB.DB)
			products, err := productRepo.ByUploadID(ctx, upload.ID)
			require.NoError(t, err)
			assert.Empty(t, products)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProductRepository(t *testing.T) {
	requirePostgres(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewProductRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveBatchAndByUploadID", func(t *testing.T) {
			upload, err := testDB.CreateTestUpload("nakup.xlsx")
			require.NoError(t, err)

			food := "Potraviny"
			products := []*models.Product{
				{UploadID: upload.ID, Name: "Mléko", TotalPrice: 25.5, Category: &food},
				{UploadID: upload.ID, Name: "Chléb", TotalPrice: 32},
			}
			require.NoError(t, repo.SaveBatch(ctx, products))

			found, err := repo.ByUploadID(ctx, upload.ID)
			require.NoError(t, err)
			require.Len(t, found, 2)
			for _, p := range found {
				assert.NotEmpty(t, p.ID)
				assert.Equal(t, upload.ID, p.UploadID)
			}
		})

		t.Run("ListWithUploadsOrderedByUploadDate", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			older := &models.Upload{Filename: "leden.xlsx", UploadedAt: utils.UTCNow().Add(-48 * time.Hour)}
			newer := &models.Upload{Filename: "unor.xlsx", UploadedAt: utils.UTCNow()}
			uploadRepo := repository.NewUploadRepository(testDB.DB)
			require.NoError(t, uploadRepo.Save(ctx, older))
			require.NoError(t, uploadRepo.Save(ctx, newer))

			_, err := testDB.CreateTestProduct(newer.ID, "Mléko", 27.9, nil)
			require.NoError(t, err)
			_, err = testDB.CreateTestProduct(older.ID, "Mléko", 25.5, nil)
			require.NoError(t, err)

			rows, err := repo.ListWithUploads(ctx)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "leden.xlsx", rows[0].UploadFilename)
			assert.Equal(t, 25.5, rows[0].TotalPrice)
			assert.Equal(t, "unor.xlsx", rows[1].UploadFilename)
			assert.True(t, rows[0].UploadDate.Before(rows[1].UploadDate))
		})

		t.Run("CountByUpload", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			first, err := testDB.CreateTestUpload("prvni.xlsx")
			require.NoError(t, err)
			second, err := testDB.CreateTestUpload("druhy.xlsx")
			require.NoError(t, err)

			_, err = testDB.CreateTestProduct(first.ID, "Mléko", 25.5, nil)
			require.NoError(t, err)
			_, err = testDB.CreateTestProduct(first.ID, "Chléb", 32, nil)
			require.NoError(t, err)

			counts, err := repo.CountByUpload(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), counts[first.ID])
			assert.Zero(t, counts[second.ID])
		})

		t.Run("Count", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			upload, err := testDB.CreateTestUpload("pocet.xlsx")
			require.NoError(t, err)
			_, err = testDB.CreateTestProduct(upload.ID, "Mléko", 25.5, nil)
			require.NoError(t, err)

			count, err := repo.Count(ctx, models.ProductFilter{UploadID: &upload.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}
