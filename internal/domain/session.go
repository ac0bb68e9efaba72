package domain

// SessionState identifies where the review conversation currently is.
// Every state has exactly one handler in the reviewer service; the zero
// value is StateGreeting so a freshly constructed Session is valid.
type SessionState int

const (
	StateGreeting SessionState = iota
	StateWaitingForCommand
	StateAskingQuestionCount
	StateGeneratingQuestion
	StateWaitingForAnswer
)

func (s SessionState) String() string {
	switch s {
	case StateGreeting:
		return "GREETING"
	case StateWaitingForCommand:
		return "WAITING_FOR_COMMAND"
	case StateAskingQuestionCount:
		return "ASKING_QUESTION_COUNT"
	case StateGeneratingQuestion:
		return "GENERATING_QUESTION"
	case StateWaitingForAnswer:
		return "WAITING_FOR_ANSWER"
	default:
		return "UNKNOWN"
	}
}

// Session is the mutable state of one review conversation. It is owned
// exclusively by the session worker; nothing else reads or writes it while
// a task is in flight.
type Session struct {
	State                SessionState
	Subject              string
	QuestionCount        int
	CurrentQuestionIndex int
	CurrentQuestion      string
	// CurrentOptions holds exactly four choices while a question is pending,
	// nil otherwise.
	CurrentOptions      []string
	ConversationHistory []ChatMessage
	// AskedQuestions records every question text generated this session so the
	// generation prompt can forbid repeats. Append-only.
	AskedQuestions []string
	// SessionID groups persisted results for one quiz. Minted when the first
	// question of a quiz is generated, stable until the next quiz starts.
	SessionID string
	// WeakTopics and WeakQuestions are populated only for remedial sessions.
	WeakTopics    []string
	WeakQuestions []*QuizHistory
}

func NewSession() *Session {
	return &Session{State: StateGreeting}
}

// Reset returns every field to its initial value so a fresh quiz can start
// without recreating the object.
func (s *Session) Reset() {
	s.State = StateGreeting
	s.Subject = ""
	s.QuestionCount = 0
	s.CurrentQuestionIndex = 0
	s.CurrentQuestion = ""
	s.CurrentOptions = nil
	s.ConversationHistory = nil
	s.AskedQuestions = nil
	s.SessionID = ""
	s.WeakTopics = nil
	s.WeakQuestions = nil
}

// RememberExchange appends a user/assistant pair to the conversation history.
func (s *Session) RememberExchange(userText, assistantText string) {
	s.ConversationHistory = append(s.ConversationHistory,
		ChatMessage{Role: RoleUser, Content: userText},
		ChatMessage{Role: RoleAssistant, Content: assistantText},
	)
}

// IsRemedial reports whether the session is driving a weak-topic review quiz.
func (s *Session) IsRemedial() bool {
	return len(s.WeakTopics) > 0 && len(s.WeakQuestions) > 0
}
