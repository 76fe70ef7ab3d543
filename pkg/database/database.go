package database

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"qa_automation_backend/internal/config"
	"qa_automation_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.AnswerRecord{},
		&model.AnswerVersion{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

var sampleQuestions = []string{
	"임차료 현물 부분에서 사업관련성 및 필요성 검토를 위한 주관기관 사전 공문 승인 양식이 있나요?",
	"비교견적서 발행이 불가한 임차료 및 관리비의 경우 어떻게 처리해야 하나요?",
	"사업비 집행 시 필요한 서류는 무엇인가요?",
	"연구개발비 중 재료비 집행 기준이 궁금합니다.",
	"장비구입 시 자산등록 절차는 어떻게 되나요?",
	"인건비 지급 시 주의사항이 있나요?",
	"출장비 정산 관련 문의사항입니다.",
	"연구과제 변경승인은 언제 받아야 하나요?",
}

var sampleAIAnswers = []string{
	"임차료 집행을 위해서는 사업관련성 및 필요성을 설명하는 문서를 준비하여 주관기관에 사전 문의하시고, 필요한 서류나 양식을 확인하신 후 제출하시면 됩니다.",
	"임차료 및 관리비의 경우 동일한 조건 비교가 어려우므로, 주관기관과 협의하여 임대차 계약서, 시장 가격 조사 자료 등을 대체 증빙자료로 활용할 수 있습니다.",
	"사업비 집행을 위해서는 비교견적서, 세금계산서, 통장사본, 계좌이체확인서 등의 증빙서류가 필요하며, 사업 특성에 따라 추가 서류가 요구될 수 있습니다.",
	"재료비는 연구개발 목적으로 직접 사용되는 재료에 한해 집행 가능하며, 소모성 재료와 내구연한 1년 미만 또는 단가 50만원 미만의 비품이 포함됩니다.",
	"50만원 이상의 장비는 자산등록이 필요하며, 구입 후 30일 이내에 자산등록 신청서와 구매 증빙서류를 제출하셔야 합니다.",
	"인건비는 실제 연구에 참여한 시간에 대해서만 지급 가능하며, 4대보험 및 소득세 원천징수 등 관련 법규를 준수해야 합니다.",
	"출장비는 사전 승인된 출장계획에 따라 집행되어야 하며, 숙박비, 교통비, 일비 등에 대한 영수증과 출장복명서를 제출해야 합니다.",
	"연구과제의 중요한 변경사항(연구책임자, 연구기간, 총 연구비 등)이 발생할 경우 사전에 변경승인을 받아야 하며, 경미한 변경은 사후 보고가 가능합니다.",
}

var sampleHumanAnswers = []string{
	"임차료 집행을 위해서는 사업관련성 및 필요성을 설명하는 문서를 준비하여 주관기관에 사전 문의하시고, 해당 기관에서 요구하는 양식에 따라 제출하시면 됩니다.",
	"임차료 및 관리비의 경우 동일 조건 비교가 어려우므로, 주관기관과 협의하여 임대차 계약서, 시장 조사 자료 등을 대체 증빙으로 활용할 수 있습니다.",
	"사업비 집행시에는 비교견적서, 세금계산서, 통장사본, 이체확인서 등이 필요하며, 과제 특성에 따라 추가 서류가 요구됩니다.",
	"재료비는 연구목적으로 직접 사용되는 재료에 한해 집행 가능하며, 소모성 재료와 내구연한 1년 미만 또는 단가 50만원 미만 비품이 해당됩니다.",
	"50만원 이상 장비는 자산등록 필요하며, 구입 후 30일 이내 자산등록 신청서와 구매 증빙을 제출해야 합니다.",
	"인건비는 실제 연구참여 시간에 대해서만 지급하며, 4대보험 및 소득세 원천징수 등 관련 법규를 준수해야 합니다.",
	"출장비는 사전 승인된 계획에 따라 집행하며, 숙박비, 교통비, 일비 영수증과 출장복명서를 제출해야 합니다.",
	"연구과제 중요 변경사항 발생시 사전 변경승인 필요하며, 경미한 변경은 사후 보고 가능합니다.",
}

var samplePrograms = []string{"LIPS", "R&D", "SBIR", "KOSBIR"}

// SeedSampleData 表为空时生成最近30天的示例数据，约八成为相似答案对
func SeedSampleData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.AnswerRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	start := now.AddDate(0, 0, -30)
	span := now.Sub(start)

	for i := 0; i < 100; i++ {
		qi := i % len(sampleQuestions)
		createdAt := start.Add(time.Duration(rand.Int63n(int64(span))))
		automated := rand.Float64() < 0.8

		humanContent := sampleHumanAnswers[qi]
		if !automated {
			humanContent = fmt.Sprintf("검토 후 별도 안내드리겠습니다. (문의번호 %d)", rand.Intn(100000))
		}

		aiConfidence := 0.8 + rand.Float64()*0.2
		processing := 50 + rand.Float64()*200

		record := model.AnswerRecord{
			ID:        fmt.Sprintf("sample_%d_%d", i, now.UnixMilli()),
			QID:       fmt.Sprintf("Q_%03d", i),
			Question:  sampleQuestions[qi],
			Program:   samplePrograms[i%len(samplePrograms)],
			CreatedAt: createdAt,
			Versions: []model.AnswerVersion{
				{
					VersionID:      fmt.Sprintf("v_ai_%d", i),
					Origin:         model.OriginAI,
					Content:        sampleAIAnswers[qi],
					CreatedAt:      createdAt.Add(-time.Second),
					CreatedBy:      "qa-agent",
					ProcessingTime: &processing,
					Confidence:     &aiConfidence,
				},
				{
					VersionID: fmt.Sprintf("v_human_%d", i),
					Origin:    model.OriginHuman,
					Content:   humanContent,
					CreatedAt: createdAt,
				},
			},
		}
		if err := db.Create(&record).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded 100 sample answer records")
	return nil
}
