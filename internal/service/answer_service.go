package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"qa_automation_backend/internal/model"
	"qa_automation_backend/internal/util"

	"go.uber.org/zap"
)

// AnswerStore 应答浏览与写入所需的数据访问接口
type AnswerStore interface {
	FindAll() ([]model.AnswerRecord, error)
	Search(keyword string) ([]model.AnswerRecord, error)
	Count() (int64, error)
	CountCreatedSince(t time.Time) (int64, error)
	CountWithBothOrigins() (int64, error)
	Create(record *model.AnswerRecord) error
	FindByID(id string) (*model.AnswerRecord, error)
}

type AnswerService struct {
	Store  AnswerStore
	Logger *zap.Logger
}

func NewAnswerService(store AnswerStore, log *zap.Logger) *AnswerService {
	return &AnswerService{Store: store, Logger: log}
}

// AnswerDocument 原始导出文档的入库格式，时间字段兼容两种编码
type AnswerDocument struct {
	ID        string            `json:"_id"`
	QID       string            `json:"qid"`
	Request   RequestDocument   `json:"request"`
	Versions  []VersionDocument `json:"versions"`
	CreatedAt model.FlexTime    `json:"created_at"`
}

type RequestDocument struct {
	Messages []MessageDocument `json:"messages"`
	Program  string            `json:"program,omitempty"`
}

type MessageDocument struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type VersionDocument struct {
	VersionID      string              `json:"version_id"`
	Result         ResultDocument      `json:"result"`
	GeneratedFrom  model.VersionOrigin `json:"generated_from"`
	CreatedAt      model.FlexTime      `json:"created_at"`
	CreatedBy      string              `json:"created_by,omitempty"`
	ProcessingTime *float64            `json:"processing_time,omitempty"`
	Confidence     *float64            `json:"confidence,omitempty"`
	IsDeleted      bool                `json:"is_deleted"`
}

type ResultDocument struct {
	Question string         `json:"question,omitempty"`
	Answer   AnswerContents `json:"answer"`
}

type AnswerContents struct {
	Content    string   `json:"content"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// IngestResult 批量入库的结果，失败的文档被跳过而不是中断整批
type IngestResult struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ToRecord 把导出文档归一化为存储模型
func (d *AnswerDocument) ToRecord() (*model.AnswerRecord, error) {
	if d.CreatedAt.IsZero() {
		return nil, fmt.Errorf("document %s has no usable created_at", d.ID)
	}

	question := ""
	for _, msg := range d.Request.Messages {
		if msg.Role == "user" {
			question = msg.Content
			break
		}
	}

	record := &model.AnswerRecord{
		ID:        d.ID,
		QID:       d.QID,
		Question:  question,
		Program:   d.Request.Program,
		CreatedAt: d.CreatedAt.Time,
	}

	for _, v := range d.Versions {
		if !v.GeneratedFrom.Valid() {
			return nil, fmt.Errorf("document %s: %w: %q", d.ID, util.ErrInvalidOrigin, v.GeneratedFrom)
		}
		record.Versions = append(record.Versions, model.AnswerVersion{
			AnswerRecordID: d.ID,
			VersionID:      v.VersionID,
			Origin:         v.GeneratedFrom,
			Content:        v.Result.Answer.Content,
			CreatedAt:      v.CreatedAt.Time,
			CreatedBy:      v.CreatedBy,
			ProcessingTime: v.ProcessingTime,
			Confidence:     v.Confidence,
			IsDeleted:      v.IsDeleted,
		})
	}

	return record, nil
}

// Ingest 批量入库。文档逐条解码，单条解码或归一化失败只记录告警并跳过，
// 不中断整批，存储层错误才会中断
func (s *AnswerService) Ingest(docs []json.RawMessage) (*IngestResult, error) {
	result := &IngestResult{}

	skip := func(err error) {
		s.Logger.Warn("skipping malformed answer document", zap.Error(err))
		result.Skipped++
		result.Errors = append(result.Errors, err.Error())
	}

	for i := range docs {
		var doc AnswerDocument
		if err := json.Unmarshal(docs[i], &doc); err != nil {
			skip(fmt.Errorf("document %d: %w", i, err))
			continue
		}
		if doc.ID == "" {
			skip(fmt.Errorf("document %d has no _id", i))
			continue
		}
		record, err := doc.ToRecord()
		if err != nil {
			skip(err)
			continue
		}
		if err := s.Store.Create(record); err != nil {
			return result, err
		}
		result.Inserted++
	}

	return result, nil
}

// ResponseItem 应答浏览列表的一行
type ResponseItem struct {
	ID           string    `json:"_id"`
	QID          string    `json:"qid"`
	Question     string    `json:"question"`
	Program      string    `json:"program,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	AIContent    string    `json:"ai_content,omitempty"`
	HumanContent string    `json:"human_content,omitempty"`
	Similarity   float64   `json:"similarity"`
	Automated    bool      `json:"automated"`
}

// ListResponses 分页浏览应答记录，支持按提问内容检索与自动化状态过滤。
// filter 取值 all / automated / manual，automated 的口径与原仪表盘一致：
// 同时存在两种来源的最新有效版本
func (s *AnswerService) ListResponses(page, limit int, search, filter string, threshold float64) (*util.PageResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	records, err := s.Store.Search(search)
	if err != nil {
		return nil, err
	}

	filtered := records[:0]
	for i := range records {
		ai, human := LatestVersions(records[i].Versions)
		hasBoth := ai != nil && human != nil
		switch filter {
		case "automated":
			if hasBoth {
				filtered = append(filtered, records[i])
			}
		case "manual":
			if !hasBoth {
				filtered = append(filtered, records[i])
			}
		default:
			filtered = append(filtered, records[i])
		}
	}

	// 最新的排前面
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := int64(len(filtered))
	totalPages := (len(filtered) + limit - 1) / limit
	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	pageRecords := filtered[start:end]
	items := make([]ResponseItem, 0, len(pageRecords))
	for i := range pageRecords {
		record := &pageRecords[i]
		item := ResponseItem{
			ID:        record.ID,
			QID:       record.QID,
			Question:  record.Question,
			Program:   record.Program,
			CreatedAt: record.CreatedAt,
		}
		ai, human := LatestVersions(record.Versions)
		if ai != nil {
			item.AIContent = ai.Content
		}
		if human != nil {
			item.HumanContent = human.Content
		}
		item.Similarity = SimilarityScore(record)
		item.Automated = IsQuestionAutomated(record, threshold)
		items = append(items, item)
	}

	return &util.PageResponse{
		List:       items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// GetResponse 返回单条记录及其最新 AI/人工答案的相似度明细
func (s *AnswerService) GetResponse(id string, threshold float64) (*ResponseItem, error) {
	record, err := s.Store.FindByID(id)
	if err != nil {
		return nil, err
	}

	item := &ResponseItem{
		ID:         record.ID,
		QID:        record.QID,
		Question:   record.Question,
		Program:    record.Program,
		CreatedAt:  record.CreatedAt,
		Similarity: SimilarityScore(record),
	}
	ai, human := LatestVersions(record.Versions)
	if ai != nil {
		item.AIContent = ai.Content
	}
	if human != nil {
		item.HumanContent = human.Content
	}
	item.Automated = IsQuestionAutomated(record, threshold)

	return item, nil
}

// Summary 简要统计：总量、最近24小时新增、同时具有两种来源答案的提问数
func (s *AnswerService) Summary() (*model.AnswerSummary, error) {
	total, err := s.Store.Count()
	if err != nil {
		return nil, err
	}

	recent, err := s.Store.CountCreatedSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return nil, err
	}

	both, err := s.Store.CountWithBothOrigins()
	if err != nil {
		return nil, err
	}

	return &model.AnswerSummary{
		TotalQuestions:            total,
		RecentQuestions:           recent,
		QuestionsWithBothVersions: both,
		LastUpdated:               time.Now().UTC(),
	}, nil
}
