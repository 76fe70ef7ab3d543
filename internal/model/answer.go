package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// VersionOrigin 答案版本来源，只允许 ai / human 两种取值
type VersionOrigin string

const (
	OriginAI    VersionOrigin = "ai"
	OriginHuman VersionOrigin = "human"
)

// Valid 校验来源取值是否合法
func (o VersionOrigin) Valid() bool {
	return o == OriginAI || o == OriginHuman
}

// AnswerRecord 一条用户提问及其全部答案版本历史
type AnswerRecord struct {
	ID        string          `gorm:"primaryKey;size:64" json:"_id"`
	QID       string          `gorm:"size:64;index" json:"qid"` // 修订组 ID，可能与 ID 相同但不做此假设
	Question  string          `gorm:"type:text" json:"question"`
	Program   string          `gorm:"size:100" json:"program,omitempty"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
	Versions  []AnswerVersion `gorm:"foreignKey:AnswerRecordID;constraint:OnDelete:CASCADE" json:"versions"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}

// AnswerVersion 一条 AI 生成或人工撰写的答案版本
type AnswerVersion struct {
	ID             uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	AnswerRecordID string        `gorm:"size:64;index" json:"answerRecordId"`
	VersionID      string        `gorm:"size:64" json:"version_id"`
	Origin         VersionOrigin `gorm:"size:10;index" json:"generated_from"`
	Content        string        `gorm:"type:text" json:"content"`
	CreatedAt      time.Time     `json:"created_at"`
	CreatedBy      string        `gorm:"size:100" json:"created_by,omitempty"`
	ProcessingTime *float64      `json:"processing_time,omitempty"` // 透传字段，不参与判定
	Confidence     *float64      `json:"confidence,omitempty"`      // 透传字段，不参与判定
	IsDeleted      bool          `gorm:"index" json:"is_deleted"`
}

func (AnswerVersion) TableName() string {
	return "answer_versions"
}

// FlexTime 兼容两种时间编码：裸 ISO-8601 字符串或 {"$date": "..."} 包装对象，
// 入库前统一归一化为 time.Time
type FlexTime struct {
	time.Time
}

type dateWrapper struct {
	Date string `json:"$date"`
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return t.parse(s)
	}

	var w dateWrapper
	if err := json.Unmarshal(data, &w); err == nil && w.Date != "" {
		return t.parse(w.Date)
	}

	return fmt.Errorf("unsupported created_at encoding: %s", string(data))
}

func (t *FlexTime) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z0700", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported created_at value: %q", s)
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
