package service

import (
	"context"

	"studybuddy/internal/domain"
)

const (
	// weakRatioThreshold is the strict lower bound on incorrect/total for a
	// category to count as weak. Exactly 0.3 is not weak.
	weakRatioThreshold = 0.3
	// weakQuestionFetchLimit caps how many missed questions back a remedial quiz.
	weakQuestionFetchLimit = 20
	// maxRemedialQuestions caps the remedial quiz length.
	maxRemedialQuestions = 10
)

// WeakCategories returns the names of categories the user underperforms in.
func WeakCategories(performance []domain.CategoryPerformance) []string {
	var weak []string
	for _, p := range performance {
		if p.Category == "" || p.Incorrect <= 0 || p.Total <= 0 {
			continue
		}
		if float64(p.Incorrect)/float64(p.Total) > weakRatioThreshold {
			weak = append(weak, p.Category)
		}
	}
	return weak
}

// RemedialPlan describes a weak-topic review quiz: which categories to drill
// and which previously missed questions to seed new questions from.
type RemedialPlan struct {
	Categories []string
	Questions  []*domain.QuizHistory
}

// QuestionCount is the quiz length: min(fetched questions, maxRemedialQuestions).
func (p *RemedialPlan) QuestionCount() int {
	if len(p.Questions) < maxRemedialQuestions {
		return len(p.Questions)
	}
	return maxRemedialQuestions
}

// WeakTopicPlanner builds remedial plans from the quiz history.
type WeakTopicPlanner struct {
	repo domain.HistoryRepository
}

func NewWeakTopicPlanner(repo domain.HistoryRepository) *WeakTopicPlanner {
	return &WeakTopicPlanner{repo: repo}
}

// Plan returns a remedial plan, or nil when there is no weak-topic data and
// the caller should report that instead of starting a quiz.
func (p *WeakTopicPlanner) Plan(ctx context.Context) (*RemedialPlan, error) {
	performance, err := p.repo.CategoryPerformance(ctx)
	if err != nil {
		return nil, err
	}

	categories := WeakCategories(performance)
	if len(categories) == 0 {
		return nil, nil
	}

	questions, err := p.repo.WeakQuestions(ctx, categories, weakQuestionFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}

	return &RemedialPlan{Categories: categories, Questions: questions}, nil
}
