package papers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/vnQ-coder/exam-generator/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SavePaper persists an assembled paper and its question references in one
// transaction, filling in ID and CreatedAt on the passed paper.
func (s *Store) SavePaper(ctx context.Context, paper *models.QuestionPaper) error {
	configJSON, err := json.Marshal(paper.Config)
	if err != nil {
		return fmt.Errorf("marshal paper config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO papers (title, subject, config) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		paper.Config.Title, paper.Config.Subject, configJSON,
	).Scan(&paper.ID, &paper.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert paper: %w", err)
	}

	for _, ref := range paper.Questions {
		_, err := tx.Exec(
			`INSERT INTO paper_questions (paper_id, question_id, section, marks, position)
			 VALUES ($1, $2, $3, $4, $5)`,
			paper.ID, ref.QuestionID, ref.Section, ref.Marks, ref.Position,
		)
		if err != nil {
			return fmt.Errorf("insert paper question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetPaper loads one paper with its question references hydrated with the
// full question rows, in assembly order.
func (s *Store) GetPaper(paperID int64) (*models.QuestionPaper, error) {
	paper, err := s.scanPaper(s.db.QueryRow(
		`SELECT id, config, created_at FROM papers WHERE id = $1`, paperID,
	))
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT pq.question_id, pq.section, pq.marks, pq.position,
		        q.id, q.text, q.type, q.difficulty, q.answer, q.options, q.tags,
		        q.confidence, q.source_text, q.created_at
		 FROM paper_questions pq
		 JOIN questions q ON q.id = pq.question_id
		 WHERE pq.paper_id = $1
		 ORDER BY pq.position`,
		paperID,
	)
	if err != nil {
		return nil, fmt.Errorf("load paper questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.PaperQuestion
		var q models.Question
		err := rows.Scan(&ref.QuestionID, &ref.Section, &ref.Marks, &ref.Position,
			&q.ID, &q.Text, &q.Type, &q.Difficulty, &q.Answer,
			pq.Array(&q.Options), pq.Array(&q.Tags), &q.Confidence, &q.SourceText, &q.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan paper question: %w", err)
		}
		ref.Question = &q
		paper.Questions = append(paper.Questions, ref)
	}
	if paper.Questions == nil {
		paper.Questions = []models.PaperQuestion{}
	}
	return paper, rows.Err()
}

// ListPapers returns a page of paper headers (config snapshot, no hydrated
// questions) newest first, plus the total count.
func (s *Store) ListPapers(limit, offset int) ([]models.QuestionPaper, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count papers: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, config, created_at FROM papers
		 ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	papers := []models.QuestionPaper{}
	for rows.Next() {
		paper, err := s.scanPaper(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, *paper)
	}
	return papers, total, rows.Err()
}

func (s *Store) DeletePaper(paperID int64) error {
	res, err := s.db.Exec(`DELETE FROM papers WHERE id = $1`, paperID)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) scanPaper(row interface{ Scan(...interface{}) error }) (*models.QuestionPaper, error) {
	var paper models.QuestionPaper
	var configJSON []byte
	if err := row.Scan(&paper.ID, &configJSON, &paper.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &paper.Config); err != nil {
		return nil, fmt.Errorf("unmarshal paper config: %w", err)
	}
	return &paper, nil
}
