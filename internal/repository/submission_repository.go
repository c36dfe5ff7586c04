package repository

import (
	"examhall_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(row *model.ArchivedSubmission) error {
	return r.DB.Create(row).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.ArchivedSubmission, error) {
	var row model.ArchivedSubmission
	err := r.DB.First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *SubmissionRepository) FindByUser(userID string) ([]model.ArchivedSubmission, error) {
	var rows []model.ArchivedSubmission
	err := r.DB.Where("user_id = ?", userID).Order("submitted_at desc").Find(&rows).Error
	return rows, err
}

func (r *SubmissionRepository) DeletePendingRetry(userID, testID string) error {
	return r.DB.Where("user_id = ? AND test_id = ? AND status = ?", userID, testID, model.SubmissionPendingRetry).
		Delete(&model.ArchivedSubmission{}).Error
}
