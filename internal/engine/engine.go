// Package engine implements the interview orchestration state machine.
//
// Each room cycles intro -> question -> (optional follow-up) -> next
// question -> conclusion. The engine owns the transitions and the scoring
// flow; transcription, synthesis, evaluation and follow-up generation are
// external collaborators behind minimal interfaces. A step is atomic: every
// collaborator call completes before the session mutates, so a failed call
// leaves the room exactly where it was.
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agakshita/voxhire/internal/interview"
)

// QuestionSource supplies the ordered question list for a new session.
type QuestionSource interface {
	Questions(ctx context.Context) ([]interview.Question, error)
}

// Speech synthesizes interviewer speech. The engine never inspects audio
// bytes; it only passes text in and artifact names out.
type Speech interface {
	Synthesize(ctx context.Context, text, filename string) (string, error)
}

// Evaluator rates a candidate answer against the ideal answer. The engine
// treats it as a pure, total function over text pairs and never retries.
type Evaluator interface {
	Rate(ctx context.Context, answer, ideal string) (interview.Rating, error)
}

// FollowupGenerator produces one clarifying question from a weak answer.
type FollowupGenerator interface {
	Generate(ctx context.Context, answer string) (string, error)
}

// ReportSink receives the final report once a room reaches done. Sink
// failures are logged, never propagated into the interview flow.
type ReportSink interface {
	ReportReady(ctx context.Context, report *interview.Report) error
}

// EventRecorder receives interview lifecycle events for archival.
type EventRecorder interface {
	Record(roomID, kind, data string)
}

// Step statuses returned to the transport layer.
const (
	StatusStarted    = "started"
	StatusQuestion   = "question"
	StatusFollowup   = "followup"
	StatusConclusion = "conclusion"
	StatusDone       = "done"
	StatusNoSpeech   = "no_speech"
)

// followupPrefix opens every synthesized follow-up question.
const followupPrefix = "Can you elaborate on that? "

// StepResult describes the outcome of one orchestration step.
type StepResult struct {
	Status      string
	AudioName   string
	QuestionID  int
	Rating      interview.Rating
	ReportReady bool
}

// CollabError marks a failure in an external collaborator. The step that
// triggered it did not mutate the session, so the caller may retry the same
// submission.
type CollabError struct {
	Op  string
	Err error
}

func (e *CollabError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *CollabError) Unwrap() error { return e.Err }

// Config wires the engine's collaborators and prompts.
type Config struct {
	Store     *interview.Store
	Questions QuestionSource
	Speech    Speech
	Evaluator Evaluator
	Followup  FollowupGenerator

	// IntroPrompt may contain {candidate_name}.
	IntroPrompt      string
	ConclusionPrompt string

	Sinks    []ReportSink
	Recorder EventRecorder
	Logger   *zap.Logger
}

// Engine drives interview sessions. Safe for concurrent use; steps for the
// same room are serialized on the session lock, independent rooms proceed
// in parallel.
type Engine struct {
	store     *interview.Store
	questions QuestionSource
	speech    Speech
	evaluator Evaluator
	followup  FollowupGenerator

	introPrompt      string
	conclusionPrompt string

	sinks    []ReportSink
	recorder EventRecorder
	logger   *zap.Logger
}

// New creates an Engine from the given configuration.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:            cfg.Store,
		questions:        cfg.Questions,
		speech:           cfg.Speech,
		evaluator:        cfg.Evaluator,
		followup:         cfg.Followup,
		introPrompt:      cfg.IntroPrompt,
		conclusionPrompt: cfg.ConclusionPrompt,
		sinks:            cfg.Sinks,
		recorder:         cfg.Recorder,
		logger:           logger,
	}
}

// Start creates a session for the room and synthesizes the personalized
// intro. Starting a room that already exists replaces the old session.
func (e *Engine) Start(ctx context.Context, roomID, candidateName string) (*StepResult, error) {
	questions, err := e.questions.Questions(ctx)
	if err != nil {
		return nil, &CollabError{Op: "fetching questions", Err: err}
	}

	intro := strings.ReplaceAll(e.introPrompt, "{candidate_name}", candidateName)
	audio, err := e.speech.Synthesize(ctx, intro, fmt.Sprintf("%s_intro.wav", roomID))
	if err != nil {
		return nil, &CollabError{Op: "synthesizing intro", Err: err}
	}

	e.store.Create(roomID, candidateName, questions)
	e.record(roomID, "started", candidateName)
	e.logger.Info("interview started",
		zap.String("room_id", roomID),
		zap.Int("questions", len(questions)))

	return &StepResult{Status: StatusStarted, AudioName: audio}, nil
}

// HandleUtterance feeds one transcribed candidate utterance into the room's
// state machine. Blank input is the no-speech outcome and mutates nothing.
func (e *Engine) HandleUtterance(ctx context.Context, roomID, text string) (*StepResult, error) {
	sess, err := e.store.Get(roomID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		e.record(roomID, "no_speech", "")
		return &StepResult{Status: StatusNoSpeech}, nil
	}

	switch sess.State {
	case interview.StateIntro:
		return e.askCurrentLocked(ctx, sess)
	case interview.StateQuestion:
		return e.answerLocked(ctx, sess, text)
	case interview.StateFollowup:
		return e.followupAnswerLocked(ctx, sess, text)
	case interview.StateDone:
		return &StepResult{Status: StatusDone}, nil
	}
	return nil, fmt.Errorf("room %s in unknown state %q", roomID, sess.State)
}

// ForceNextQuestion is the administrative override: it pushes the room into
// the question state and asks the pending question (or concludes when the
// list is exhausted).
func (e *Engine) ForceNextQuestion(ctx context.Context, roomID string) (*StepResult, error) {
	sess, err := e.store.Get(roomID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return e.askCurrentLocked(ctx, sess)
}

// answerLocked evaluates an answer to the current question. Weak answers
// earn the one-shot follow-up; strong ones advance the cursor.
func (e *Engine) answerLocked(ctx context.Context, sess *interview.Session, text string) (*StepResult, error) {
	q, ok := sess.CurrentQuestion()
	if !ok {
		// Cursor already past the list (forced state). Conclude.
		return e.concludeLocked(ctx, sess)
	}

	rating, err := e.evaluator.Rate(ctx, text, q.IdealAnswer)
	if err != nil {
		return nil, &CollabError{Op: "evaluating answer", Err: err}
	}

	resp := interview.Response{
		QuestionID:  q.ID,
		Question:    q.Text,
		Answer:      text,
		Rating:      rating,
		IdealAnswer: q.IdealAnswer,
	}

	if rating.NeedsFollowup() {
		generated, err := e.followup.Generate(ctx, text)
		if err != nil {
			return nil, &CollabError{Op: "generating follow-up", Err: err}
		}
		followupText := followupPrefix + generated

		name := fmt.Sprintf("%s_followup_%d.wav", sess.RoomID, sess.CurrentIdx)
		audio, err := e.speech.Synthesize(ctx, followupText, name)
		if err != nil {
			return nil, &CollabError{Op: "synthesizing follow-up", Err: err}
		}

		resp.FollowupText = followupText
		sess.AppendResponse(resp)
		sess.SetState(interview.StateFollowup)
		e.record(sess.RoomID, "followup", string(rating))
		e.logger.Debug("follow-up asked",
			zap.String("room_id", sess.RoomID),
			zap.String("rating", string(rating)),
			zap.Int("question_idx", sess.CurrentIdx))

		return &StepResult{Status: StatusFollowup, AudioName: audio, Rating: rating}, nil
	}

	return e.advanceLocked(ctx, sess, func() {
		sess.AppendResponse(resp)
	})
}

// followupAnswerLocked re-evaluates the follow-up answer against the same
// ideal answer. The stored rating upgrades only when the new one is
// strictly better; a follow-up never downgrades and there is no second
// follow-up regardless of the new rating.
func (e *Engine) followupAnswerLocked(ctx context.Context, sess *interview.Session, text string) (*StepResult, error) {
	q, ok := sess.CurrentQuestion()
	if !ok {
		return e.concludeLocked(ctx, sess)
	}

	rating, err := e.evaluator.Rate(ctx, text, q.IdealAnswer)
	if err != nil {
		return nil, &CollabError{Op: "evaluating follow-up answer", Err: err}
	}

	return e.advanceLocked(ctx, sess, func() {
		sess.AttachFollowup(text, rating)
	})
}

// advanceLocked synthesizes the audio for whatever comes after the current
// question (the next question or the conclusion), then applies the pending
// mutation and moves the cursor. Synthesis happens first so a speech
// failure leaves the session untouched.
func (e *Engine) advanceLocked(ctx context.Context, sess *interview.Session, commit func()) (*StepResult, error) {
	nextIdx := sess.CurrentIdx + 1
	if nextIdx < len(sess.Questions) {
		next := sess.Questions[nextIdx]
		name := fmt.Sprintf("%s_question_%d.wav", sess.RoomID, nextIdx)
		audio, err := e.speech.Synthesize(ctx, next.Text, name)
		if err != nil {
			return nil, &CollabError{Op: "synthesizing question", Err: err}
		}

		commit()
		sess.Advance()
		sess.SetState(interview.StateQuestion)
		e.record(sess.RoomID, "question", next.Text)

		return &StepResult{Status: StatusQuestion, AudioName: audio, QuestionID: nextIdx}, nil
	}

	name := fmt.Sprintf("%s_conclusion.wav", sess.RoomID)
	audio, err := e.speech.Synthesize(ctx, e.conclusionPrompt, name)
	if err != nil {
		return nil, &CollabError{Op: "synthesizing conclusion", Err: err}
	}

	commit()
	sess.Advance()
	return e.finalizeLocked(ctx, sess, audio)
}

// askCurrentLocked asks the question at the cursor without recording an
// answer. Used when leaving the intro and for the administrative override.
func (e *Engine) askCurrentLocked(ctx context.Context, sess *interview.Session) (*StepResult, error) {
	q, ok := sess.CurrentQuestion()
	if !ok {
		return e.concludeLocked(ctx, sess)
	}

	name := fmt.Sprintf("%s_question_%d.wav", sess.RoomID, sess.CurrentIdx)
	audio, err := e.speech.Synthesize(ctx, q.Text, name)
	if err != nil {
		return nil, &CollabError{Op: "synthesizing question", Err: err}
	}

	sess.SetState(interview.StateQuestion)
	e.record(sess.RoomID, "question", q.Text)

	return &StepResult{Status: StatusQuestion, AudioName: audio, QuestionID: sess.CurrentIdx}, nil
}

// concludeLocked synthesizes the conclusion and finalizes the room.
func (e *Engine) concludeLocked(ctx context.Context, sess *interview.Session) (*StepResult, error) {
	name := fmt.Sprintf("%s_conclusion.wav", sess.RoomID)
	audio, err := e.speech.Synthesize(ctx, e.conclusionPrompt, name)
	if err != nil {
		return nil, &CollabError{Op: "synthesizing conclusion", Err: err}
	}
	return e.finalizeLocked(ctx, sess, audio)
}

// finalizeLocked moves the room to done and produces the report exactly
// once. A session with no responses concludes without a report; the report
// endpoint surfaces that as "no data" instead of inventing a decision.
func (e *Engine) finalizeLocked(ctx context.Context, sess *interview.Session, audio string) (*StepResult, error) {
	sess.SetState(interview.StateDone)

	if sess.Report == nil {
		report, err := interview.BuildReport(sess)
		if err != nil {
			e.logger.Info("interview concluded without responses",
				zap.String("room_id", sess.RoomID))
			e.record(sess.RoomID, "conclusion", "no responses")
			return &StepResult{Status: StatusConclusion, AudioName: audio}, nil
		}
		sess.Report = report

		for _, sink := range e.sinks {
			if err := sink.ReportReady(ctx, report); err != nil {
				e.logger.Warn("report sink failed",
					zap.String("room_id", sess.RoomID),
					zap.Error(err))
			}
		}
		e.record(sess.RoomID, "conclusion", string(report.Decision))
		e.logger.Info("interview concluded",
			zap.String("room_id", sess.RoomID),
			zap.Float64("average_score", report.AverageScore),
			zap.String("decision", string(report.Decision)))
	}

	return &StepResult{Status: StatusConclusion, AudioName: audio, ReportReady: sess.Report != nil}, nil
}

func (e *Engine) record(roomID, kind, data string) {
	if e.recorder != nil {
		e.recorder.Record(roomID, kind, data)
	}
}
