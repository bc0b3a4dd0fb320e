// Package quizrun sequences a quiz attempt: generation, question
// navigation with recorded answers, guarded submission, and results.
package quizrun

import (
	"context"
	"errors"
	"sync"

	"github.com/profai/profai-backend/pkg/types"
)

// Phase is the attempt lifecycle.
type Phase int

const (
	// PhaseIdle means no quiz has been requested yet.
	PhaseIdle Phase = iota
	PhaseGenerating
	PhaseQuestion
	PhaseSubmitting
	PhaseResults
	// PhaseFailed means generation failed; Generate may be called again.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhaseQuestion:
		return "question"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResults:
		return "results"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Unanswered marks a question with no recorded answer.
const Unanswered = -1

// Backend is the slice of the API client the runner needs.
type Backend interface {
	GenerateQuiz(ctx context.Context, req types.GenerateQuizReq) (types.GenerateQuizResp, error)
	SubmitQuiz(ctx context.Context, req types.SubmitQuizReq) (types.SubmitQuizResp, error)
}

// Runner drives one quiz attempt.
type Runner struct {
	backend Backend
	req     types.GenerateQuizReq

	mu         sync.Mutex
	phase      Phase
	quizID     string
	questions  []types.QuizQuestion
	answers    []int
	index      int
	submitting bool
	result     types.SubmitQuizResp
}

func New(backend Backend, req types.GenerateQuizReq) *Runner {
	return &Runner{backend: backend, req: req}
}

// Phase returns the current lifecycle phase.
func (r *Runner) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Generate fetches the quiz. On failure the runner enters PhaseFailed and
// Generate may simply be called again (manual retry).
func (r *Runner) Generate(ctx context.Context) error {
	r.mu.Lock()
	if r.phase != PhaseIdle && r.phase != PhaseFailed {
		r.mu.Unlock()
		return errors.New("quiz already generated")
	}
	r.phase = PhaseGenerating
	r.mu.Unlock()

	resp, err := r.backend.GenerateQuiz(ctx, r.req)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.phase = PhaseFailed
		return err
	}
	if len(resp.Questions) == 0 {
		r.phase = PhaseFailed
		return errors.New("quiz has no questions")
	}
	r.quizID = resp.QuizID
	r.questions = resp.Questions
	r.answers = make([]int, len(resp.Questions))
	for i := range r.answers {
		r.answers[i] = Unanswered
	}
	r.index = 0
	r.phase = PhaseQuestion
	return nil
}

// Current returns the question at the cursor and the answer previously
// recorded for it, Unanswered if none.
func (r *Runner) Current() (types.QuizQuestion, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseQuestion {
		return types.QuizQuestion{}, Unanswered, errors.New("no question to display")
	}
	return r.questions[r.index], r.answers[r.index], nil
}

// Index returns the cursor position and total question count.
func (r *Runner) Index() (i, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index, len(r.questions)
}

// Answer records a choice for the current question. Re-answering
// overwrites the previous choice.
func (r *Runner) Answer(choice int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseQuestion {
		return errors.New("not accepting answers")
	}
	if choice < 0 || choice >= len(r.questions[r.index].Options) {
		return errors.New("choice out of range")
	}
	r.answers[r.index] = choice
	return nil
}

// Next advances the cursor. At the last question it reports done=true and
// leaves the cursor in place; the caller then invokes Submit.
func (r *Runner) Next() (done bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseQuestion {
		return false, errors.New("not in a question")
	}
	if r.index == len(r.questions)-1 {
		return true, nil
	}
	r.index++
	return false, nil
}

// Prev moves the cursor back; the previously recorded answer for that
// index is still there, no re-fetch happens.
func (r *Runner) Prev() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseQuestion {
		return errors.New("not in a question")
	}
	if r.index > 0 {
		r.index--
	}
	return nil
}

// Submit grades the attempt. Duplicate submissions are blocked by the
// submitting flag; a failed submission resets the flag so the user can
// manually resubmit.
func (r *Runner) Submit(ctx context.Context) (types.SubmitQuizResp, error) {
	r.mu.Lock()
	if r.phase != PhaseQuestion {
		r.mu.Unlock()
		return types.SubmitQuizResp{}, errors.New("nothing to submit")
	}
	if r.submitting {
		r.mu.Unlock()
		return types.SubmitQuizResp{}, errors.New("submission already in progress")
	}
	r.submitting = true
	r.phase = PhaseSubmitting
	req := types.SubmitQuizReq{
		QuizID:      r.quizID,
		UserAnswers: append([]int(nil), r.answers...),
		Questions:   r.questions,
	}
	r.mu.Unlock()

	resp, err := r.backend.SubmitQuiz(ctx, req)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitting = false
	if err != nil {
		// Back to the last question so the user can resubmit.
		r.phase = PhaseQuestion
		return types.SubmitQuizResp{}, err
	}
	r.result = resp
	r.phase = PhaseResults
	return resp, nil
}

// Result returns the graded outcome once in PhaseResults.
func (r *Runner) Result() (types.SubmitQuizResp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseResults {
		return types.SubmitQuizResp{}, errors.New("no result yet")
	}
	return r.result, nil
}
