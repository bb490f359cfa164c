package scan

import (
	"LabelWise-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCreateScanInsertsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScanRepository(db)

	scan := &entities.Scan{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		ImageURL: "https://bucket.s3.region.amazonaws.com/user/user_1.jpg",
		RawText:  "Water, Sugar, Citric Acid",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "scans"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateScan(context.Background(), scan)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnalysisResultInsertsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScanRepository(db)

	result := &entities.AnalysisResult{
		ID:         uuid.New(),
		ScanID:     uuid.New(),
		Beneficial: "[]",
		Harmful:    `[{"ingredient":"Sugar","reason":"high glycemic index"}]`,
		Neutral:    "[]",
		Summary:    "One harmful ingredient.",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "analysis_results"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateAnalysisResult(context.Background(), result)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScansCountsAndPreloadsAnalyses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScanRepository(db)

	userID := uuid.New()
	scanID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "scans"`).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "scans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "image_url", "raw_text", "created_at", "updated_at"}).
			AddRow(scanID, userID, "https://example.com/img.jpg", "Water", now, now))

	mock.ExpectQuery(`SELECT \* FROM "analysis_results"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "scan_id", "beneficial", "harmful", "neutral", "summary", "created_at", "updated_at"}).
			AddRow(uuid.New(), scanID, "[]", "[]", `[{"ingredient":"Water","reason":"hydration"}]`, "Just water.", now, now))

	scans, count, err := repo.GetScans(context.Background(), userID.String(), 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), count)
	require.Len(t, scans, 1)
	assert.Equal(t, scanID, scans[0].ID)
	require.NotNil(t, scans[0].AnalysisResult)
	assert.Equal(t, "Just water.", scans[0].AnalysisResult.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScanByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScanRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "scans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "image_url", "raw_text", "created_at", "updated_at"}))

	_, err := repo.GetScanByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
