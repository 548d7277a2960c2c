package handlers

import (
	"time"

	"eggadventure/internal/game"
	"eggadventure/internal/models"
)

// UserView is the account shape returned to clients
type UserView struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
}

func newUserView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		IsAnonymous: u.IsAnonymous,
	}
}

// QuestionView is a quiz question with the answer stripped out. Clients
// only learn the correct option through the next snapshot's player state.
type QuestionView struct {
	ID         string   `json:"id"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

// SnapshotView is the controller state shape returned to clients
type SnapshotView struct {
	Player        models.Player       `json:"player"`
	Phase         game.Phase          `json:"phase"`
	Saving        bool                `json:"saving"`
	Question      *QuestionView       `json:"question,omitempty"`
	QuestionIndex int                 `json:"questionIndex"`
	QuestionTotal int                 `json:"questionTotal"`
	Deadline      *time.Time          `json:"deadline,omitempty"`
	Results       *game.SessionResult `json:"results,omitempty"`
	Notice        *game.Notice        `json:"notice,omitempty"`
}

func newSnapshotView(s game.Snapshot) SnapshotView {
	view := SnapshotView{
		Player:        s.Player,
		Phase:         s.Phase,
		Saving:        s.Saving,
		QuestionIndex: s.QuestionIndex,
		QuestionTotal: s.QuestionTotal,
		Results:       s.Results,
		Notice:        s.Notice,
	}
	if s.Question != nil {
		view.Question = &QuestionView{
			ID:         s.Question.ID,
			Prompt:     s.Question.Prompt,
			Options:    s.Question.Options,
			Difficulty: s.Question.Difficulty,
		}
	}
	if !s.Deadline.IsZero() {
		deadline := s.Deadline
		view.Deadline = &deadline
	}
	return view
}

// RoomView is a rooms-map entry returned to clients
type RoomView struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Subject string   `json:"subject,omitempty"`
	Exits   []string `json:"exits"`
}

func newRoomView(room game.Room) RoomView {
	return RoomView{
		Key:     room.Key,
		Name:    room.Name,
		Type:    string(room.Type),
		Subject: room.Subject,
		Exits:   room.Exits,
	}
}
