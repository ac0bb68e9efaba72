package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"studybuddy/internal/domain"
	"studybuddy/internal/logger"
	"studybuddy/internal/parser"
	"studybuddy/internal/util"

	"go.uber.org/zap"
)

var quizMeRe = regexp.MustCompile(`(?i)quiz me about (.+)`)

// bareLetterRe matches a correct_answer that is just an option letter.
var bareLetterRe = regexp.MustCompile(`^[A-Da-d]$`)

var weakTopicTriggers = []string{
	"ap reviewer",
	"review my weak topics",
	"review my mistakes",
	"focus on weak areas",
	"weak topics",
}

// Reply is the outcome of one state-machine step.
type Reply struct {
	Text    string
	Options []string
	// Result is set when an answer was checked and should be persisted.
	Result *domain.QuizResult
	// WeakTopicsRequested signals the caller to load weak-topic data and
	// re-enter the machine; the session state is left untouched.
	WeakTopicsRequested bool
	// SeedQuestionID identifies the missed question a remedial question was
	// generated from, so its review stats can be touched.
	SeedQuestionID int64
}

// Reviewer is the review-session state machine. It mutates the Session it is
// handed, but never owns one: the session worker serializes all calls.
type Reviewer struct {
	chat        domain.ChatClient
	answerCache AnswerCacheService
}

// NewReviewer creates a Reviewer. answerCache may be nil to disable caching.
func NewReviewer(chat domain.ChatClient, answerCache AnswerCacheService) *Reviewer {
	return &Reviewer{chat: chat, answerCache: answerCache}
}

// Greeting returns the fixed conversation opener.
func (r *Reviewer) Greeting() string {
	return greetingText
}

// Handle advances the session by one user input. Transport failures return an
// error with the session state unchanged, so resubmitting the same input
// retries the turn. Every other failure resolves to a defined next state.
func (r *Reviewer) Handle(ctx context.Context, s *domain.Session, input string) (*Reply, error) {
	switch s.State {
	case domain.StateGreeting:
		// Input arrived before the greeting turn; treat the session as idle.
		s.State = domain.StateWaitingForCommand
		return r.handleCommand(ctx, s, input)
	case domain.StateWaitingForCommand:
		return r.handleCommand(ctx, s, input)
	case domain.StateAskingQuestionCount:
		return r.handleQuestionCount(ctx, s, input)
	case domain.StateGeneratingQuestion:
		return r.GenerateQuestion(ctx, s)
	case domain.StateWaitingForAnswer:
		return r.checkAnswer(ctx, s, input)
	default:
		return nil, domain.NewInternalError(fmt.Sprintf("unhandled session state %s", s.State), nil)
	}
}

func (r *Reviewer) handleCommand(ctx context.Context, s *domain.Session, input string) (*Reply, error) {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)

	// A bare greeting repeats the introduction instead of starting a quiz.
	if lower == "hi" || lower == "hello" || lower == "hey" {
		return &Reply{Text: greetingText}, nil
	}

	for _, trigger := range weakTopicTriggers {
		if strings.Contains(lower, trigger) {
			return &Reply{WeakTopicsRequested: true}, nil
		}
	}

	subject := trimmed
	if m := quizMeRe.FindStringSubmatch(input); m != nil {
		subject = strings.TrimSpace(m[1])
	}
	if subject != "" {
		s.Subject = subject
		s.State = domain.StateAskingQuestionCount
		return &Reply{
			Text: fmt.Sprintf("Great! How many questions would you like about %s?", subject),
		}, nil
	}

	return r.freeChat(ctx, s, input)
}

func (r *Reviewer) handleQuestionCount(ctx context.Context, s *domain.Session, input string) (*Reply, error) {
	count, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || count <= 0 {
		// Not an error: re-prompt in place.
		return &Reply{Text: invalidCountText}, nil
	}

	s.QuestionCount = count
	s.CurrentQuestionIndex = 0
	s.State = domain.StateGeneratingQuestion
	return r.GenerateQuestion(ctx, s)
}

// GenerateQuestion produces the next question and moves the session to
// WaitingForAnswer, or back to WaitingForCommand when the model output is
// unusable. Exported so the session worker can chain question generation
// after an answer without a synthetic user input.
func (r *Reviewer) GenerateQuestion(ctx context.Context, s *domain.Session) (*Reply, error) {
	// A new quiz mints a fresh session id for grouping persisted results.
	if s.CurrentQuestionIndex == 0 || s.SessionID == "" {
		s.SessionID = util.NewULID()
	}

	var seedID int64
	var contextText string
	maxTokens := questionMaxTokens
	if s.IsRemedial() {
		seed := s.WeakQuestions[s.CurrentQuestionIndex%len(s.WeakQuestions)]
		seedID = seed.ID
		maxTokens = remedialQuestionMaxTokens
		contextText = fmt.Sprintf(
			"Generate a new question similar to this one the user got wrong:\n"+
				"Question: %q\nCategory: %q\n\n"+
				"Create a similar multiple-choice question to help them practice this weak area.",
			seed.Question, seed.Category)
	} else {
		contextText = fmt.Sprintf("Create ONE multiple-choice question about %s (Question %d/%d).",
			s.Subject, s.CurrentQuestionIndex+1, s.QuestionCount)
	}

	var prompt strings.Builder
	prompt.WriteString(contextText)
	if len(s.AskedQuestions) > 0 {
		prompt.WriteString("\n\nPreviously asked questions, do NOT repeat any of them:\n")
		for _, asked := range s.AskedQuestions {
			if asked != "" {
				prompt.WriteString("- " + asked + "\n")
			}
		}
	}

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: questionGeneratorPrompt},
		{Role: domain.RoleUser, Content: prompt.String()},
	}

	raw, err := r.chat.Complete(ctx, messages, maxTokens)
	if err != nil {
		if isTransportError(err) {
			// State unchanged; the caller surfaces the error and the user's
			// next input retries generation.
			return nil, err
		}
		// An empty completion is as unusable as malformed output.
		raw = ""
	}

	question, perr := parser.ParseQuestion(raw)
	if perr != nil {
		logger.Get().Warn("Question generation failed, returning to idle",
			zap.String("subject", s.Subject),
			zap.String("raw", raw),
			zap.Error(perr))
		s.State = domain.StateWaitingForCommand
		return &Reply{Text: apologyText}, nil
	}

	s.CurrentQuestion = question.Text
	s.CurrentOptions = question.Options
	s.AskedQuestions = append(s.AskedQuestions, question.Text)
	s.State = domain.StateWaitingForAnswer

	display := formatQuestion(question.Text, question.Options)
	s.ConversationHistory = append(s.ConversationHistory,
		domain.ChatMessage{Role: domain.RoleAssistant, Content: display})

	return &Reply{Text: display, Options: question.Options, SeedQuestionID: seedID}, nil
}

func (r *Reviewer) checkAnswer(ctx context.Context, s *domain.Session, userAnswer string) (*Reply, error) {
	result, raw, err := r.evaluateAnswer(ctx, s, userAnswer)
	if err != nil {
		return nil, err
	}

	result.Options = s.CurrentOptions
	result.SessionID = s.SessionID
	expandCorrectAnswer(result, s.CurrentOptions)

	s.RememberExchange(userAnswer, raw)

	display := formatAnswerFeedback(result, userAnswer)

	s.CurrentQuestionIndex++
	if s.CurrentQuestionIndex < s.QuestionCount {
		s.State = domain.StateGeneratingQuestion
		return &Reply{Text: display, Result: result}, nil
	}

	// Quiz complete: back to idle, exactly one completion banner.
	s.State = domain.StateWaitingForCommand
	final := fmt.Sprintf("%s\n\n✅ Completed all %d questions!", display, s.QuestionCount)
	if summary := r.topicSummary(ctx, s); summary != "" {
		final += "\n\nTopic summary:\n" + summary
	}
	s.CurrentQuestion = ""
	s.CurrentOptions = nil
	s.WeakTopics = nil
	s.WeakQuestions = nil

	return &Reply{Text: final, Result: result}, nil
}

// evaluateAnswer asks the model (or the answer cache) whether the user's
// answer is correct. It only fails on transport errors; anything else
// degrades to a fallback result so the quiz can advance.
func (r *Reviewer) evaluateAnswer(ctx context.Context, s *domain.Session, userAnswer string) (*domain.QuizResult, string, error) {
	if r.answerCache != nil {
		cached, err := r.answerCache.Get(ctx, s.CurrentQuestion, userAnswer)
		if err != nil {
			logger.Get().Warn("Answer cache lookup failed", zap.Error(err))
		} else if cached != nil {
			logger.Get().Debug("Answer cache hit", zap.String("question", s.CurrentQuestion))
			return cached, cached.Explanation, nil
		}
	}

	category := s.Subject
	if category == "" {
		category = "General"
	}

	var optionsText strings.Builder
	if len(s.CurrentOptions) > 0 {
		optionsText.WriteString("\nOptions:\n")
		for i, option := range s.CurrentOptions {
			optionsText.WriteString(fmt.Sprintf("%c) %s\n", 'A'+i, option))
		}
	}

	checkPrompt := fmt.Sprintf(
		"Q: %s%s\nUser selected: %s\n\n"+
			"Check if the user's answer is correct. Reply with: Correct/Incorrect, "+
			"the correct answer (from options), brief explanation (1 sentence), then JSON: "+
			`{"category":%q,"question":%q,"user_answer":%q,`+
			`"correct_answer":"[correct option from A/B/C/D]","is_correct":true/false,"explanation":"[explanation]"}`,
		s.CurrentQuestion, optionsText.String(), userAnswer,
		category, s.CurrentQuestion, userAnswer)

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: tutorPrompt},
		{Role: domain.RoleUser, Content: checkPrompt},
	}

	raw, err := r.chat.Complete(ctx, messages, answerCheckMaxTokens)
	if err != nil {
		if isTransportError(err) {
			return nil, "", err
		}
		raw = ""
	}

	result := parser.ExtractQuizResult(raw, parser.AnswerContext{
		Category:   category,
		Question:   s.CurrentQuestion,
		UserAnswer: userAnswer,
	})

	if r.answerCache != nil && result.Explanation != parser.FallbackExplanation {
		if err := r.answerCache.Put(ctx, s.CurrentQuestion, userAnswer, result); err != nil {
			logger.Get().Warn("Answer cache store failed", zap.Error(err))
		}
	}

	return result, raw, nil
}

func (r *Reviewer) freeChat(ctx context.Context, s *domain.Session, input string) (*Reply, error) {
	messages := make([]domain.ChatMessage, 0, len(s.ConversationHistory)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: systemPrompt})
	messages = append(messages, s.ConversationHistory...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: input})

	text, err := r.chat.Complete(ctx, messages, freeChatMaxTokens)
	if err != nil {
		if isTransportError(err) {
			return nil, err
		}
		text = chatFallbackText
	}

	s.RememberExchange(input, text)
	return &Reply{Text: text}, nil
}

// topicSummary fetches a short wrap-up of the quiz subject. Best effort:
// failures are logged and the summary is skipped.
func (r *Reviewer) topicSummary(ctx context.Context, s *domain.Session) string {
	subject := s.Subject
	if subject == "" {
		subject = "this topic"
	}

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: summarySystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(
			"Give me a short summary about %s that reviews what a student should remember.", subject)},
	}

	summary, err := r.chat.Complete(ctx, messages, summaryMaxTokens)
	if err != nil {
		logger.Get().Warn("Topic summary generation failed", zap.String("subject", subject), zap.Error(err))
		return ""
	}
	return summary
}

func formatQuestion(text string, options []string) string {
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n")
	for i, option := range options {
		b.WriteString(fmt.Sprintf("%c) %s\n", 'A'+i, option))
	}
	return b.String()
}

func formatAnswerFeedback(result *domain.QuizResult, userAnswer string) string {
	correctness := "❌ Incorrect."
	if result.IsCorrect {
		correctness = "✅ Correct!"
	}
	correctAnswerText := result.CorrectAnswer
	if correctAnswerText == "" {
		correctAnswerText = "Not available."
	}
	explanationText := result.Explanation
	if explanationText == "" {
		explanationText = "No explanation was provided."
	}
	return fmt.Sprintf("%s\n\nYour answer: %s\nCorrect answer: %s\n\n%s",
		correctness, userAnswer, correctAnswerText, explanationText)
}

// expandCorrectAnswer replaces a bare option letter with the option's text so
// persisted history is readable without the option set.
func expandCorrectAnswer(result *domain.QuizResult, options []string) {
	if !bareLetterRe.MatchString(result.CorrectAnswer) || len(options) == 0 {
		return
	}
	index := int(strings.ToUpper(result.CorrectAnswer)[0] - 'A')
	if index >= 0 && index < len(options) {
		result.CorrectAnswer = fmt.Sprintf("%s) %s", strings.ToUpper(result.CorrectAnswer), options[index])
	}
}

func isTransportError(err error) bool {
	var domainErr *domain.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == domain.ErrTransport
}
