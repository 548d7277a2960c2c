package game

import "testing"

func TestValidateRooms(t *testing.T) {
	if err := ValidateRooms(); err != nil {
		t.Errorf("ValidateRooms() = %v, want nil", err)
	}
}

func TestRoomExits(t *testing.T) {
	for _, room := range AllRooms() {
		if len(room.Exits) == 0 {
			t.Errorf("room %q has no exits", room.Key)
		}
		for _, exit := range room.Exits {
			if !RoomExists(exit) {
				t.Errorf("room %q exit %q does not resolve", room.Key, exit)
			}
		}
	}
}

func TestBattleRoomSubjects(t *testing.T) {
	battles := 0
	for _, room := range AllRooms() {
		if room.Type != RoomBattle {
			continue
		}
		battles++
		if !KnownSubject(room.Subject) {
			t.Errorf("battle room %q has unknown subject %q", room.Key, room.Subject)
		}
	}
	if battles == 0 {
		t.Error("map has no battle rooms")
	}
}

func TestLookupRoom(t *testing.T) {
	if _, ok := LookupRoom(StartRoomKey); !ok {
		t.Errorf("start room %q not found", StartRoomKey)
	}
	if _, ok := LookupRoom("atlantis"); ok {
		t.Error("LookupRoom() found an undefined room")
	}
}
