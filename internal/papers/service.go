package papers

import (
	"context"
	"fmt"

	"github.com/vnQ-coder/exam-generator/internal/models"
	"github.com/vnQ-coder/exam-generator/internal/questions"
)

type Service struct {
	store     *Store
	questions *questions.Store
}

func NewService(store *Store, questionStore *questions.Store) *Service {
	return &Service{store: store, questions: questionStore}
}

// CreatePaper assembles a paper from the current question pool and persists
// it. Assembly failures come back as *AssemblyError for the handler to map
// to client errors.
func (s *Service) CreatePaper(ctx context.Context, cfg models.PaperConfig) (*models.QuestionPaper, error) {
	pool, err := s.questions.GetAllQuestions()
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	paper, err := Assemble(pool, cfg)
	if err != nil {
		return nil, err
	}

	if err := s.store.SavePaper(ctx, paper); err != nil {
		return nil, err
	}
	return s.store.GetPaper(paper.ID)
}

// RegeneratePaper re-runs assembly with a stored paper's config against the
// pool as it stands today, producing a brand-new paper. The original is left
// untouched.
func (s *Service) RegeneratePaper(ctx context.Context, paperID int64) (*models.QuestionPaper, error) {
	original, err := s.store.GetPaper(paperID)
	if err != nil {
		return nil, err
	}
	return s.CreatePaper(ctx, original.Config)
}

func (s *Service) GetPaper(paperID int64) (*models.QuestionPaper, error) {
	return s.store.GetPaper(paperID)
}

func (s *Service) ListPapers(limit, offset int) (*models.PaperListResponse, error) {
	papers, total, err := s.store.ListPapers(limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.PaperListResponse{
		Papers: papers,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *Service) DeletePaper(paperID int64) error {
	return s.store.DeletePaper(paperID)
}
