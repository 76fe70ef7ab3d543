package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"qa_automation_backend/internal/model"
	"qa_automation_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeAnswerStore struct {
	records []model.AnswerRecord
}

func (f *fakeAnswerStore) FindAll() ([]model.AnswerRecord, error) {
	return append([]model.AnswerRecord(nil), f.records...), nil
}

func (f *fakeAnswerStore) Search(keyword string) ([]model.AnswerRecord, error) {
	if keyword == "" {
		return f.FindAll()
	}
	var out []model.AnswerRecord
	for _, r := range f.records {
		if strings.Contains(r.Question, keyword) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAnswerStore) Count() (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeAnswerStore) CountCreatedSince(t time.Time) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.CreatedAt.After(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAnswerStore) CountWithBothOrigins() (int64, error) {
	var n int64
	for i := range f.records {
		if hasOrigin(&f.records[i], model.OriginAI) && hasOrigin(&f.records[i], model.OriginHuman) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAnswerStore) Create(record *model.AnswerRecord) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAnswerStore) FindByID(id string) (*model.AnswerRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			return &f.records[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func validDocumentJSON(id string, createdAt string) string {
	return `{
		"_id": "` + id + `",
		"qid": "qid-` + id + `",
		"request": {
			"messages": [
				{"role": "system", "content": "지침"},
				{"role": "user", "content": "임차료 증빙서류는 무엇인가요?"}
			],
			"program": "창업도약패키지"
		},
		"versions": [
			{
				"version_id": "v1",
				"result": {"answer": {"content": "임대차계약서와 이체확인증이 필요합니다."}},
				"generated_from": "ai",
				"created_at": {"$date": "` + createdAt + `"}
			},
			{
				"version_id": "v2",
				"result": {"answer": {"content": "임대차계약서와 이체확인증이 필요합니다."}},
				"generated_from": "human",
				"created_at": "` + createdAt + `",
				"created_by": "manager"
			}
		],
		"created_at": "` + createdAt + `"
	}`
}

func TestToRecord(t *testing.T) {
	var doc AnswerDocument
	require.NoError(t, json.Unmarshal([]byte(validDocumentJSON("doc-1", "2024-01-15T09:30:00.000Z")), &doc))

	record, err := doc.ToRecord()
	require.NoError(t, err)

	assert.Equal(t, "doc-1", record.ID)
	assert.Equal(t, "qid-doc-1", record.QID)
	// system 消息不参与，取第一条 user 消息作为提问内容
	assert.Equal(t, "임차료 증빙서류는 무엇인가요?", record.Question)
	assert.Equal(t, "창업도약패키지", record.Program)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), record.CreatedAt.UTC())

	require.Len(t, record.Versions, 2)
	assert.Equal(t, model.OriginAI, record.Versions[0].Origin)
	assert.Equal(t, model.OriginHuman, record.Versions[1].Origin)
	assert.Equal(t, "manager", record.Versions[1].CreatedBy)
	assert.Equal(t, "doc-1", record.Versions[0].AnswerRecordID)
}

func TestToRecord_MissingCreatedAt(t *testing.T) {
	doc := AnswerDocument{ID: "no-time"}

	_, err := doc.ToRecord()
	assert.Error(t, err)
}

func TestToRecord_InvalidOrigin(t *testing.T) {
	doc := AnswerDocument{
		ID:        "bad-origin",
		CreatedAt: model.FlexTime{Time: time.Now()},
		Versions: []VersionDocument{
			{GeneratedFrom: "bot", CreatedAt: model.FlexTime{Time: time.Now()}},
		},
	}

	_, err := doc.ToRecord()
	assert.ErrorIs(t, err, util.ErrInvalidOrigin)
}

func TestIngest_SkipsMalformedDocuments(t *testing.T) {
	store := &fakeAnswerStore{}
	svc := NewAnswerService(store, zap.NewNop())

	good := json.RawMessage(validDocumentJSON("good", "2024-01-15T09:30:00.000Z"))
	missingTime := json.RawMessage(`{"_id": "bad"}`)

	result, err := svc.Ingest([]json.RawMessage{good, missingTime})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "bad")
	assert.Len(t, store.records, 1)
}

func TestIngest_BadTimestampValueSkipsOnlyThatDocument(t *testing.T) {
	store := &fakeAnswerStore{}
	svc := NewAnswerService(store, zap.NewNop())

	good := json.RawMessage(validDocumentJSON("good", "2024-01-15T09:30:00.000Z"))
	// created_at 值无法解析时只跳过这一条，其余文档照常入库
	badValue := json.RawMessage(`{"_id": "bad-value", "created_at": "definitely not a timestamp"}`)
	noID := json.RawMessage(`{"created_at": "2024-01-15T09:30:00.000Z"}`)

	result, err := svc.Ingest([]json.RawMessage{badValue, good, noID})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, store.records, 1)
	assert.Equal(t, "good", store.records[0].ID)
}

func listFixtures() []model.AnswerRecord {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []model.AnswerRecord{
		pairedRecord("r-automated", base.Add(1*time.Hour), "같은 답변입니다", "같은 답변입니다"),
		{
			ID:        "r-manual",
			QID:       "q-manual",
			Question:  "인건비 집행 기준이 궁금합니다",
			CreatedAt: base.Add(2 * time.Hour),
			Versions: []model.AnswerVersion{
				{Origin: model.OriginAI, Content: "answer", CreatedAt: base},
			},
		},
		pairedRecord("r-latest", base.Add(3*time.Hour), "다른 답변", "전혀 관계 없는 내용"),
	}
}

func TestListResponses_NewestFirst(t *testing.T) {
	svc := NewAnswerService(&fakeAnswerStore{records: listFixtures()}, zap.NewNop())

	page, err := svc.ListResponses(1, 10, "", "all", 0.7)
	require.NoError(t, err)

	items := page.List.([]ResponseItem)
	require.Len(t, items, 3)
	assert.Equal(t, "r-latest", items[0].ID)
	assert.Equal(t, "r-manual", items[1].ID)
	assert.Equal(t, "r-automated", items[2].ID)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.TotalPages)

	assert.True(t, items[2].Automated)
	assert.Equal(t, 1.0, items[2].Similarity)
	assert.False(t, items[0].Automated)
}

func TestListResponses_Filters(t *testing.T) {
	svc := NewAnswerService(&fakeAnswerStore{records: listFixtures()}, zap.NewNop())

	page, err := svc.ListResponses(1, 10, "", "automated", 0.7)
	require.NoError(t, err)
	items := page.List.([]ResponseItem)
	// automated 过滤按"两种来源齐备"口径，与相似度阈值无关
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NotEmpty(t, item.AIContent)
		assert.NotEmpty(t, item.HumanContent)
	}

	page, err = svc.ListResponses(1, 10, "", "manual", 0.7)
	require.NoError(t, err)
	items = page.List.([]ResponseItem)
	require.Len(t, items, 1)
	assert.Equal(t, "r-manual", items[0].ID)
}

func TestListResponses_SearchAndPagination(t *testing.T) {
	svc := NewAnswerService(&fakeAnswerStore{records: listFixtures()}, zap.NewNop())

	page, err := svc.ListResponses(1, 10, "인건비", "all", 0.7)
	require.NoError(t, err)
	items := page.List.([]ResponseItem)
	require.Len(t, items, 1)
	assert.Equal(t, "r-manual", items[0].ID)

	page, err = svc.ListResponses(2, 2, "", "all", 0.7)
	require.NoError(t, err)
	items = page.List.([]ResponseItem)
	require.Len(t, items, 1)
	assert.Equal(t, "r-automated", items[0].ID)
	assert.Equal(t, 2, page.TotalPages)

	// 超出范围的页返回空列表而不是错误
	page, err = svc.ListResponses(9, 10, "", "all", 0.7)
	require.NoError(t, err)
	assert.Empty(t, page.List.([]ResponseItem))
}

func TestGetResponse(t *testing.T) {
	svc := NewAnswerService(&fakeAnswerStore{records: listFixtures()}, zap.NewNop())

	item, err := svc.GetResponse("r-automated", 0.7)
	require.NoError(t, err)
	assert.Equal(t, "같은 답변입니다", item.AIContent)
	assert.Equal(t, "같은 답변입니다", item.HumanContent)
	assert.Equal(t, 1.0, item.Similarity)
	assert.True(t, item.Automated)

	_, err = svc.GetResponse("missing", 0.7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSummary(t *testing.T) {
	records := listFixtures()
	records[0].CreatedAt = time.Now().UTC() // 一条落在最近24小时内
	svc := NewAnswerService(&fakeAnswerStore{records: records}, zap.NewNop())

	summary, err := svc.Summary()
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalQuestions)
	assert.Equal(t, int64(1), summary.RecentQuestions)
	assert.Equal(t, int64(2), summary.QuestionsWithBothVersions)
	assert.False(t, summary.LastUpdated.IsZero())
}
