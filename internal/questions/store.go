package questions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/vnQ-coder/exam-generator/internal/models"
)

// ErrQuestionInUse is returned when deleting a question that an existing
// paper still references. Papers are immutable records of their selection,
// so the referenced question has to stay.
var ErrQuestionInUse = errors.New("question is referenced by an existing paper")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const questionCols = `id, text, type, difficulty, answer, options, tags, confidence, source_text, created_at`

func scanQuestion(row interface{ Scan(...interface{}) error }) (*models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.Text, &q.Type, &q.Difficulty, &q.Answer,
		pq.Array(&q.Options), pq.Array(&q.Tags), &q.Confidence, &q.SourceText, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// SaveGenerated inserts a batch of freshly generated questions in one
// transaction and returns them with IDs and timestamps filled in.
func (s *Store) SaveGenerated(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	saved := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		err := tx.QueryRow(
			`INSERT INTO questions (text, type, difficulty, answer, options, tags, confidence, source_text)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, created_at`,
			q.Text, q.Type, q.Difficulty, q.Answer,
			pq.Array(q.Options), pq.Array(q.Tags), q.Confidence, q.SourceText,
		).Scan(&q.ID, &q.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}
		saved = append(saved, q)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

func (s *Store) GetQuestion(questionID int64) (*models.Question, error) {
	q, err := scanQuestion(s.db.QueryRow(
		`SELECT `+questionCols+` FROM questions WHERE id = $1`, questionID,
	))
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// ListQuestions returns a filtered page of questions plus the total count
// matching the filter.
func (s *Store) ListQuestions(filter models.QuestionFilter) ([]models.Question, int, error) {
	var conditions []string
	var args []interface{}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Type != nil {
		addArg("type = $%d", *filter.Type)
	}
	if filter.Difficulty != nil {
		addArg("difficulty = $%d", *filter.Difficulty)
	}
	if filter.Tag != "" {
		// Case-insensitive membership against the tags array.
		addArg("EXISTS (SELECT 1 FROM unnest(tags) t WHERE LOWER(t) = LOWER($%d))", filter.Tag)
	}
	if filter.Search != "" {
		addArg(`text ILIKE '%%' || $%d || '%%' ESCAPE '\'`, escapeLikePattern(filter.Search))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM questions%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			questionCols, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, total, rows.Err()
}

// GetAllQuestions loads the entire pool. The paper assembler operates on an
// in-memory snapshot, so this is the pool accessor it consumes.
func (s *Store) GetAllQuestions() ([]models.Question, error) {
	rows, err := s.db.Query(`SELECT ` + questionCols + ` FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// UpdateQuestion applies an explicit edit. Confidence is deliberately not
// updatable; it is fixed at generation time.
func (s *Store) UpdateQuestion(questionID int64, req models.UpdateQuestionRequest) (*models.Question, error) {
	var sets []string
	var args []interface{}

	addSet := func(clause string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if req.Text != nil {
		addSet("text = $%d", *req.Text)
	}
	if req.Answer != nil {
		addSet("answer = $%d", *req.Answer)
	}
	if req.Options != nil {
		addSet("options = $%d", pq.Array(req.Options))
	}
	if req.Tags != nil {
		addSet("tags = $%d", pq.Array(req.Tags))
	}
	if req.Difficulty != nil {
		addSet("difficulty = $%d", *req.Difficulty)
	}

	if len(sets) == 0 {
		return s.GetQuestion(questionID)
	}

	args = append(args, questionID)
	q, err := scanQuestion(s.db.QueryRow(
		fmt.Sprintf(`UPDATE questions SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), questionCols),
		args...,
	))
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

func (s *Store) DeleteQuestion(questionID int64) error {
	res, err := s.db.Exec(`DELETE FROM questions WHERE id = $1`, questionID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrQuestionInUse
		}
		return fmt.Errorf("delete question: %w", err)
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

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes LIKE metacharacters so a search for a
// literal "%" or "_" matches only that character.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
