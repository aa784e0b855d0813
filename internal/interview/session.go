package interview

import (
	"sync"
	"time"
)

// Session is the mutable record for one interview room. All mutations go
// through the methods below while holding the session lock, so a room's
// progression is strictly sequential even when audio submissions race.
type Session struct {
	mu sync.Mutex

	RoomID        string     `json:"room_id"`
	CandidateName string     `json:"candidate_name"`
	Questions     []Question `json:"questions"`
	CurrentIdx    int        `json:"current_question_idx"`
	Responses     []Response `json:"responses"`
	State         State      `json:"state"`
	Report        *Report    `json:"report,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewSession creates a session in the intro state. Question IDs default to
// their 1-based position when the source left them unset.
func NewSession(roomID, candidateName string, questions []Question) *Session {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	for i := range qs {
		if qs[i].ID == 0 {
			qs[i].ID = i + 1
		}
	}
	now := time.Now().UTC()
	return &Session{
		RoomID:        roomID,
		CandidateName: candidateName,
		Questions:     qs,
		State:         StateIntro,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Lock serializes orchestration steps for this room. Callers must hold the
// lock for the full duration of a step so two near-simultaneous submissions
// cannot both observe the same cursor and double-apply a transition.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-room lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// CurrentQuestion returns the question at the cursor, or false when the
// question list is exhausted. Callers must hold the lock.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.CurrentIdx >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIdx], true
}

// AppendResponse records the answer to the current question. At most one
// response exists per question, in ask order. Callers must hold the lock.
func (s *Session) AppendResponse(resp Response) {
	s.Responses = append(s.Responses, resp)
	s.touch()
}

// AttachFollowup amends the most recently appended response: it stores the
// follow-up answer and upgrades the rating only if the new rating ranks
// strictly above the stored one. A follow-up never downgrades and never
// creates a new response. Callers must hold the lock.
func (s *Session) AttachFollowup(answer string, rating Rating) {
	if len(s.Responses) == 0 {
		return
	}
	last := &s.Responses[len(s.Responses)-1]
	last.FollowupAnswer = answer
	if rating.Better(last.Rating) {
		last.Rating = rating
	}
	s.touch()
}

// Advance moves the cursor past the current question. The cursor only ever
// increases, by exactly one. Callers must hold the lock.
func (s *Session) Advance() {
	s.CurrentIdx++
	s.touch()
}

// SetState moves the session to the given state. Callers must hold the lock.
func (s *Session) SetState(state State) {
	s.State = state
	s.touch()
}

// Exhausted reports whether the cursor has passed the last question.
// Callers must hold the lock.
func (s *Session) Exhausted() bool {
	return s.CurrentIdx >= len(s.Questions)
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
