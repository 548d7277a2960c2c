package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role determines which screen the client renders
type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// StartRoomKey is where new and lost players end up
const StartRoomKey = "start"

// Reward is a parent-defined redeemable item costed in gold
type Reward struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// WrongQuestions records previously-missed question IDs per subject and grade.
// Each ID appears at most once per subject/grade.
type WrongQuestions map[string]map[string][]string

// Player is the per-user game profile persisted as a single document
type Player struct {
	HP             int            `json:"hp"`
	MaxHP          int            `json:"maxHp"`
	Gold           int            `json:"gold"`
	Exp            int            `json:"exp"`
	Level          int            `json:"lv"`
	Inventory      []string       `json:"inventory"`
	CurrentRoom    string         `json:"currentRoom"`
	WrongQuestions WrongQuestions `json:"wrongQuestions"`
	Role           Role           `json:"role"`
	ParentEmail    string         `json:"parentEmail"`
	FamilyRewards  []Reward       `json:"familyRewards"`

	// Version increases by one on every save. Watch snapshots carrying a
	// version at or below the local one are stale echoes and get dropped.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultPlayer returns the initial profile written on first sign-in
func DefaultPlayer() Player {
	return Player{
		HP:             100,
		MaxHP:          100,
		Gold:           100,
		Exp:            0,
		Level:          1,
		Inventory:      []string{},
		CurrentRoom:    StartRoomKey,
		WrongQuestions: WrongQuestions{},
		Role:           RoleStudent,
		ParentEmail:    "",
		FamilyRewards:  []Reward{},
	}
}

// MergePlayer decodes a stored profile document over the default profile.
// Fields absent from the document keep their default value, so documents
// written before a field existed are backfilled on load.
func MergePlayer(doc []byte) (Player, error) {
	p := DefaultPlayer()
	if err := json.Unmarshal(doc, &p); err != nil {
		return Player{}, fmt.Errorf("failed to decode profile document: %w", err)
	}
	p.Normalize()
	return p, nil
}

// Normalize repairs a profile so the invariants hold regardless of what the
// stored document contained: sequences are never nil, hp stays within
// [0, maxHp], role is a known value, and wrong-question sets hold no
// duplicates.
func (p *Player) Normalize() {
	if p.Inventory == nil {
		p.Inventory = []string{}
	}
	if p.FamilyRewards == nil {
		p.FamilyRewards = []Reward{}
	}
	if p.WrongQuestions == nil {
		p.WrongQuestions = WrongQuestions{}
	}
	for subject, grades := range p.WrongQuestions {
		for grade, ids := range grades {
			p.WrongQuestions[subject][grade] = dedupe(ids)
		}
	}
	if p.MaxHP <= 0 {
		p.MaxHP = DefaultPlayer().MaxHP
	}
	p.ClampHP()
	if p.Role != RoleParent {
		p.Role = RoleStudent
	}
	if p.CurrentRoom == "" {
		p.CurrentRoom = StartRoomKey
	}
}

// ClampHP keeps hp within [0, maxHp]
func (p *Player) ClampHP() {
	if p.HP < 0 {
		p.HP = 0
	}
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// Clone returns a deep copy so a next-profile value can be computed as a
// whole before being published or discarded
func (p Player) Clone() Player {
	out := p
	out.Inventory = append([]string{}, p.Inventory...)
	out.FamilyRewards = append([]Reward{}, p.FamilyRewards...)
	out.WrongQuestions = p.WrongQuestions.Clone()
	return out
}

// Has reports whether the question ID is recorded for the subject and grade
func (w WrongQuestions) Has(subject, grade, id string) bool {
	for _, existing := range w[subject][grade] {
		if existing == id {
			return true
		}
	}
	return false
}

// Add records a missed question ID. Adding an ID that is already present is
// a no-op.
func (w WrongQuestions) Add(subject, grade, id string) {
	if w.Has(subject, grade, id) {
		return
	}
	if w[subject] == nil {
		w[subject] = map[string][]string{}
	}
	w[subject][grade] = append(w[subject][grade], id)
}

// Remove clears a question ID after it has been answered correctly
func (w WrongQuestions) Remove(subject, grade, id string) {
	ids := w[subject][grade]
	for i, existing := range ids {
		if existing == id {
			w[subject][grade] = append(ids[:i:i], ids[i+1:]...)
			return
		}
	}
}

// IDs returns the recorded question IDs for a subject and grade
func (w WrongQuestions) IDs(subject, grade string) []string {
	return append([]string{}, w[subject][grade]...)
}

// Clone returns a deep copy of the wrong-question log
func (w WrongQuestions) Clone() WrongQuestions {
	out := make(WrongQuestions, len(w))
	for subject, grades := range w {
		out[subject] = make(map[string][]string, len(grades))
		for grade, ids := range grades {
			out[subject][grade] = append([]string{}, ids...)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
