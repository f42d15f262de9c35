package repositories

import (
	"time"

	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModerationRepository defines the interface for reports and blocks
type ModerationRepository interface {
	CreateReport(report *models.Report) error
	GetOpenReports(page, limit int) ([]models.Report, int64, error)
	GetReportByID(id uint) (*models.Report, error)
	ResolveReport(id uint) error
	ToggleBlock(blockerID, blockedID uint) (blocked bool, err error)
	IsBlocked(blockerID, blockedID uint) (bool, error)
	GetBlockedIDs(blockerID uint) ([]uint, error)
}

// PostgresModerationRepository implements ModerationRepository
type PostgresModerationRepository struct {
	db *gorm.DB
}

func NewPostgresModerationRepository(db *gorm.DB) *PostgresModerationRepository {
	return &PostgresModerationRepository{db: db}
}

// CreateReport persists a report.
func (r *PostgresModerationRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

// GetOpenReports lists unresolved reports, oldest first, paginated.
func (r *PostgresModerationRepository) GetOpenReports(page, limit int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	if err := r.db.Model(&models.Report{}).Where("is_resolved = ?", false).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("is_resolved = ?", false).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, total, err
}

// GetReportByID retrieves a report
func (r *PostgresModerationRepository) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ResolveReport marks a report resolved with the resolution time.
func (r *PostgresModerationRepository) ResolveReport(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Report{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_resolved": true, "resolved_at": now}).Error
}

// ToggleBlock flips the directed block edge, guarded by the unique pair.
func (r *PostgresModerationRepository) ToggleBlock(blockerID, blockedID uint) (bool, error) {
	var blocked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		block := models.Block{BlockerID: blockerID, BlockedID: blockedID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&block)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			blocked = true
			return nil
		}
		blocked = false
		return tx.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{}).Error
	})
	return blocked, err
}

// IsBlocked checks whether blocker has blocked blocked.
func (r *PostgresModerationRepository) IsBlocked(blockerID, blockedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Block{}).Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Count(&count).Error
	return count > 0, err
}

// GetBlockedIDs lists the users blocked by blocker.
func (r *PostgresModerationRepository) GetBlockedIDs(blockerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Block{}).Where("blocker_id = ?", blockerID).Pluck("blocked_id", &ids).Error
	return ids, err
}
