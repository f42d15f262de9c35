package repositories

import (
	"testing"

	"github.com/mytro-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndResolveReport(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresModerationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, bob.ID, "spammy")

	report := &models.Report{
		ReporterID:     alice.ID,
		ReportedPostID: &post.ID,
		ReportType:     models.ReportTypeSpam,
		Reason:         "spam links",
	}
	require.NoError(t, repo.CreateReport(report))

	open, total, err := repo.GetOpenReports(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, open, 1)
	assert.False(t, open[0].IsResolved)

	require.NoError(t, repo.ResolveReport(report.ID))

	_, total, err = repo.GetOpenReports(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	resolved, err := repo.GetReportByID(report.ID)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestOpenReportsOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresModerationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first := &models.Report{ReporterID: alice.ID, ReportedUserID: &bob.ID, ReportType: models.ReportTypeSpam, Reason: "one"}
	require.NoError(t, repo.CreateReport(first))
	second := &models.Report{ReporterID: alice.ID, ReportedUserID: &bob.ID, ReportType: models.ReportTypeOther, Reason: "two"}
	require.NoError(t, repo.CreateReport(second))

	open, _, err := repo.GetOpenReports(1, 10)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, first.ID, open[0].ID)
}

func TestToggleBlockFlipsState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresModerationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	blocked, err := repo.ToggleBlock(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	is, err := repo.IsBlocked(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, is)

	// The block is directional.
	is, err = repo.IsBlocked(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, is)

	blocked, err = repo.ToggleBlock(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, blocked)

	ids, err := repo.GetBlockedIDs(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
