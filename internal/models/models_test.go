package models

import (
	"testing"
)

func TestDefaultPlayer(t *testing.T) {
	p := DefaultPlayer()

	if p.HP != 100 || p.MaxHP != 100 {
		t.Errorf("DefaultPlayer() hp = %d/%d, want 100/100", p.HP, p.MaxHP)
	}
	if p.Gold != 100 {
		t.Errorf("DefaultPlayer() gold = %d, want 100", p.Gold)
	}
	if p.Exp != 0 || p.Level != 1 {
		t.Errorf("DefaultPlayer() exp/lv = %d/%d, want 0/1", p.Exp, p.Level)
	}
	if p.CurrentRoom != StartRoomKey {
		t.Errorf("DefaultPlayer() currentRoom = %q, want %q", p.CurrentRoom, StartRoomKey)
	}
	if p.Role != RoleStudent {
		t.Errorf("DefaultPlayer() role = %q, want %q", p.Role, RoleStudent)
	}
	if p.Inventory == nil || p.FamilyRewards == nil || p.WrongQuestions == nil {
		t.Error("DefaultPlayer() sequences must not be nil")
	}
}

func TestMergePlayerBackfill(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want func(t *testing.T, p Player)
	}{
		{
			name: "empty document takes all defaults",
			doc:  `{}`,
			want: func(t *testing.T, p Player) {
				if p.HP != 100 || p.Gold != 100 || p.CurrentRoom != StartRoomKey {
					t.Errorf("defaults not applied: %+v", p)
				}
			},
		},
		{
			name: "stored fields win over defaults",
			doc:  `{"hp":40,"gold":250,"currentRoom":"shop"}`,
			want: func(t *testing.T, p Player) {
				if p.HP != 40 || p.Gold != 250 || p.CurrentRoom != "shop" {
					t.Errorf("stored fields lost: %+v", p)
				}
				if p.MaxHP != 100 || p.Level != 1 {
					t.Errorf("missing fields not backfilled: %+v", p)
				}
			},
		},
		{
			name: "document missing newly-added fields keeps existing ones",
			doc:  `{"hp":77,"wrongQuestions":{"math":{"一上":["math_一上_simple_3"]}}}`,
			want: func(t *testing.T, p Player) {
				if p.HP != 77 {
					t.Errorf("hp = %d, want 77", p.HP)
				}
				if !p.WrongQuestions.Has("math", "一上", "math_一上_simple_3") {
					t.Error("wrongQuestions entry lost in merge")
				}
				if p.FamilyRewards == nil {
					t.Error("familyRewards must be backfilled to an empty sequence")
				}
			},
		},
		{
			name: "malformed sequences become empty sequences",
			doc:  `{"inventory":null,"familyRewards":null,"wrongQuestions":null}`,
			want: func(t *testing.T, p Player) {
				if p.Inventory == nil || p.FamilyRewards == nil || p.WrongQuestions == nil {
					t.Error("nil sequences must be repaired")
				}
			},
		},
		{
			name: "hp clamped to [0, maxHp]",
			doc:  `{"hp":5000,"maxHp":100}`,
			want: func(t *testing.T, p Player) {
				if p.HP != 100 {
					t.Errorf("hp = %d, want clamped to 100", p.HP)
				}
			},
		},
		{
			name: "negative hp floors at zero",
			doc:  `{"hp":-20}`,
			want: func(t *testing.T, p Player) {
				if p.HP != 0 {
					t.Errorf("hp = %d, want 0", p.HP)
				}
			},
		},
		{
			name: "duplicate wrong-question ids collapse",
			doc:  `{"wrongQuestions":{"math":{"一上":["a","a","b","a"]}}}`,
			want: func(t *testing.T, p Player) {
				ids := p.WrongQuestions.IDs("math", "一上")
				if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
					t.Errorf("ids = %v, want [a b]", ids)
				}
			},
		},
		{
			name: "unknown role falls back to student",
			doc:  `{"role":"wizard"}`,
			want: func(t *testing.T, p Player) {
				if p.Role != RoleStudent {
					t.Errorf("role = %q, want student", p.Role)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := MergePlayer([]byte(tt.doc))
			if err != nil {
				t.Fatalf("MergePlayer() error = %v", err)
			}
			tt.want(t, p)
		})
	}
}

func TestMergePlayerInvalidJSON(t *testing.T) {
	if _, err := MergePlayer([]byte(`{not json`)); err == nil {
		t.Error("MergePlayer() with invalid JSON should return an error")
	}
}

func TestWrongQuestionsSetSemantics(t *testing.T) {
	w := WrongQuestions{}

	w.Add("math", "一上", "math_一上_simple_0")
	w.Add("math", "一上", "math_一上_simple_0")
	w.Add("math", "一上", "math_一上_simple_1")

	if ids := w.IDs("math", "一上"); len(ids) != 2 {
		t.Errorf("IDs() = %v, want 2 distinct entries", ids)
	}

	w.Remove("math", "一上", "math_一上_simple_0")
	if w.Has("math", "一上", "math_一上_simple_0") {
		t.Error("Remove() left the id behind")
	}
	if !w.Has("math", "一上", "math_一上_simple_1") {
		t.Error("Remove() dropped an unrelated id")
	}

	// Removing from an empty set is a no-op
	w.Remove("english", "一上", "nothing")
}

func TestPlayerClone(t *testing.T) {
	p := DefaultPlayer()
	p.WrongQuestions.Add("math", "一上", "math_一上_simple_0")
	p.FamilyRewards = append(p.FamilyRewards, Reward{ID: "r1", Name: "Ice cream", Cost: 50})
	p.Inventory = append(p.Inventory, "fishing-rod")

	clone := p.Clone()
	clone.WrongQuestions.Add("math", "一上", "math_一上_simple_9")
	clone.FamilyRewards[0].Cost = 999
	clone.Inventory[0] = "changed"

	if p.WrongQuestions.Has("math", "一上", "math_一上_simple_9") {
		t.Error("Clone() shares the wrongQuestions map")
	}
	if p.FamilyRewards[0].Cost != 50 {
		t.Error("Clone() shares the familyRewards slice")
	}
	if p.Inventory[0] != "fishing-rod" {
		t.Error("Clone() shares the inventory slice")
	}
}
