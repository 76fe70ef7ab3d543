package repository

import (
	"time"

	"qa_automation_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// FindByTimeRange 查询 created_at 落在 [start, end] 闭区间内的全部提问记录（含版本）
func (r *AnswerRepository) FindByTimeRange(start, end time.Time) ([]model.AnswerRecord, error) {
	var records []model.AnswerRecord
	err := r.DB.Preload("Versions").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *AnswerRepository) FindAll() ([]model.AnswerRecord, error) {
	var records []model.AnswerRecord
	err := r.DB.Preload("Versions").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Search 按提问内容模糊检索（空关键字等价于 FindAll）
func (r *AnswerRepository) Search(keyword string) ([]model.AnswerRecord, error) {
	if keyword == "" {
		return r.FindAll()
	}
	var records []model.AnswerRecord
	err := r.DB.Preload("Versions").
		Where("question LIKE ?", "%"+keyword+"%").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *AnswerRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.AnswerRecord{}).Count(&count).Error
	return count, err
}

func (r *AnswerRepository) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AnswerRecord{}).
		Where("created_at >= ?", t).
		Count(&count).Error
	return count, err
}

// CountWithBothOrigins 统计同时具有有效 AI 版本与人工版本的提问数
func (r *AnswerRepository) CountWithBothOrigins() (int64, error) {
	var count int64
	err := r.DB.Model(&model.AnswerRecord{}).
		Where("id IN (?)", r.originSubquery(model.OriginAI)).
		Where("id IN (?)", r.originSubquery(model.OriginHuman)).
		Count(&count).Error
	return count, err
}

func (r *AnswerRepository) originSubquery(origin model.VersionOrigin) *gorm.DB {
	return r.DB.Model(&model.AnswerVersion{}).
		Select("answer_record_id").
		Where("origin = ? AND is_deleted = ?", origin, false)
}

func (r *AnswerRepository) Create(record *model.AnswerRecord) error {
	return r.DB.Create(record).Error
}

func (r *AnswerRepository) FindByID(id string) (*model.AnswerRecord, error) {
	var record model.AnswerRecord
	err := r.DB.Preload("Versions").Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
