package service

import (
	"context"
	"strings"
	"time"

	"studybuddy/internal/domain"
	"studybuddy/internal/logger"

	"go.uber.org/zap"
)

const saveFailedNotice = "Couldn't save this result to your history."

// Turn is everything one queued user action produced: the assistant messages
// to render and, when persistence failed, a non-fatal notice.
type Turn struct {
	Messages []domain.ChatMessage
	Notice   string
}

type taskKind int

const (
	taskStart taskKind = iota
	taskMessage
)

type taskResult struct {
	turn *Turn
	err  error
}

type task struct {
	kind  taskKind
	text  string
	reply chan taskResult
}

// SessionWorker owns the Session exclusively and processes queued actions one
// at a time, in submission order. A second action submitted while the first is
// in flight waits behind it; an issued network call always runs to completion.
type SessionWorker struct {
	reviewer *Reviewer
	planner  *WeakTopicPlanner
	repo     domain.HistoryRepository
	session  *domain.Session
	tasks    chan task
}

func NewSessionWorker(reviewer *Reviewer, planner *WeakTopicPlanner, repo domain.HistoryRepository) *SessionWorker {
	return &SessionWorker{
		reviewer: reviewer,
		planner:  planner,
		repo:     repo,
		session:  domain.NewSession(),
		tasks:    make(chan task, 32),
	}
}

// Run processes tasks until ctx is cancelled. It must be running before
// StartSession or SendMessage is called.
func (w *SessionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-w.tasks:
			turn, err := w.process(ctx, t)
			t.reply <- taskResult{turn: turn, err: err}
		}
	}
}

// StartSession resets the conversation and returns the greeting.
func (w *SessionWorker) StartSession(ctx context.Context) (*Turn, error) {
	return w.submit(ctx, task{kind: taskStart})
}

// SendMessage queues one user input and waits for the turn it produces.
// A turn may carry both messages and an error (e.g. answers checked, then a
// transport failure while generating the next question).
func (w *SessionWorker) SendMessage(ctx context.Context, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewInvalidInputError("message text is empty")
	}
	return w.submit(ctx, task{kind: taskMessage, text: text})
}

func (w *SessionWorker) submit(ctx context.Context, t task) (*Turn, error) {
	t.reply = make(chan taskResult, 1)
	select {
	case w.tasks <- t:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Once queued the task will run; the buffered reply channel lets the
	// worker move on even if this caller has gone away.
	select {
	case result := <-t.reply:
		return result.turn, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (w *SessionWorker) process(ctx context.Context, t task) (*Turn, error) {
	switch t.kind {
	case taskStart:
		w.session.Reset()
		w.session.State = domain.StateWaitingForCommand
		return &Turn{Messages: []domain.ChatMessage{
			{Role: domain.RoleAssistant, Content: w.reviewer.Greeting()},
		}}, nil
	case taskMessage:
		return w.processMessage(ctx, t.text)
	default:
		return nil, domain.NewInternalError("unknown task kind", nil)
	}
}

func (w *SessionWorker) processMessage(ctx context.Context, text string) (*Turn, error) {
	turn := &Turn{}

	reply, err := w.reviewer.Handle(ctx, w.session, text)
	if err != nil {
		// Session state untouched: resubmitting the same input retries.
		return turn, err
	}

	if reply.WeakTopicsRequested {
		return w.startRemedialQuiz(ctx, turn)
	}

	w.applyReply(ctx, turn, reply)
	return w.driveGeneration(ctx, turn)
}

// driveGeneration chains question generation after a state transition into
// GeneratingQuestion, so the user never has to prompt for the next question.
func (w *SessionWorker) driveGeneration(ctx context.Context, turn *Turn) (*Turn, error) {
	for w.session.State == domain.StateGeneratingQuestion &&
		w.session.CurrentQuestionIndex < w.session.QuestionCount {
		reply, err := w.reviewer.GenerateQuestion(ctx, w.session)
		if err != nil {
			// Transport failure: keep what the turn already produced and let
			// the user's next input retry generation.
			return turn, err
		}
		w.applyReply(ctx, turn, reply)
	}
	return turn, nil
}

func (w *SessionWorker) startRemedialQuiz(ctx context.Context, turn *Turn) (*Turn, error) {
	plan, err := w.planner.Plan(ctx)
	if err != nil {
		return turn, err
	}
	if plan == nil {
		w.session.State = domain.StateWaitingForCommand
		turn.Messages = append(turn.Messages, domain.ChatMessage{
			Role:    domain.RoleAssistant,
			Content: noWeakTopicsText,
		})
		return turn, nil
	}

	w.session.WeakTopics = plan.Categories
	w.session.WeakQuestions = plan.Questions
	w.session.Subject = strings.Join(plan.Categories, ", ")
	w.session.QuestionCount = plan.QuestionCount()
	w.session.CurrentQuestionIndex = 0
	w.session.State = domain.StateGeneratingQuestion

	return w.driveGeneration(ctx, turn)
}

func (w *SessionWorker) applyReply(ctx context.Context, turn *Turn, reply *Reply) {
	message := domain.ChatMessage{Role: domain.RoleAssistant, Content: reply.Text}
	if w.session.State == domain.StateWaitingForAnswer && len(w.session.CurrentOptions) > 0 {
		message.Options = w.session.CurrentOptions
	}
	turn.Messages = append(turn.Messages, message)

	if reply.Result != nil {
		w.persistResult(ctx, turn, reply.Result)
	}
	if reply.SeedQuestionID != 0 {
		if err := w.repo.TouchReview(ctx, reply.SeedQuestionID, time.Now()); err != nil {
			logger.Get().Warn("Failed to touch review stats",
				zap.Int64("id", reply.SeedQuestionID), zap.Error(err))
		}
	}
}

// persistResult saves a quiz result. Failures are logged and surfaced as a
// notice; they never block the conversation or roll back session state.
func (w *SessionWorker) persistResult(ctx context.Context, turn *Turn, result *domain.QuizResult) {
	record := domain.NewQuizHistory(result)
	if err := w.repo.Insert(ctx, record); err != nil {
		logger.Get().Error("Failed to save quiz result",
			zap.String("session_id", result.SessionID), zap.Error(err))
		turn.Notice = saveFailedNotice
		return
	}
	logger.Get().Debug("Quiz result saved",
		zap.Int64("id", record.ID), zap.String("session_id", result.SessionID))
}
