package game

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"eggadventure/internal/models"
)

// RoomType categorizes what a room offers the player
type RoomType string

const (
	RoomSafe    RoomType = "safe"
	RoomBattle  RoomType = "battle"
	RoomShop    RoomType = "shop"
	RoomFamily  RoomType = "family"
	RoomFishing RoomType = "fishing"
)

// Room is a navigable location in the static map. Battle rooms carry the
// subject their challenges draw from.
type Room struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Type    RoomType `json:"type"`
	Subject string   `json:"subject,omitempty"`
	Exits   []string `json:"exits"`
}

// StartRoomKey is the fallback destination for unknown room keys
const StartRoomKey = models.StartRoomKey

var rooms = map[string]Room{
	StartRoomKey: {
		Key:   StartRoomKey,
		Name:  "蛋仔村",
		Type:  RoomSafe,
		Exits: []string{"mathMeadow", "wordForest", "letterBeach", "shop", "home", "pond"},
	},
	"mathMeadow": {
		Key:     "mathMeadow",
		Name:    "算術草原",
		Type:    RoomBattle,
		Subject: "math",
		Exits:   []string{StartRoomKey, "shop"},
	},
	"wordForest": {
		Key:     "wordForest",
		Name:    "國字森林",
		Type:    RoomBattle,
		Subject: "chinese",
		Exits:   []string{StartRoomKey, "shop"},
	},
	"letterBeach": {
		Key:     "letterBeach",
		Name:    "字母海灘",
		Type:    RoomBattle,
		Subject: "english",
		Exits:   []string{StartRoomKey, "pond"},
	},
	"shop": {
		Key:   "shop",
		Name:  "道具商店",
		Type:  RoomShop,
		Exits: []string{StartRoomKey},
	},
	"home": {
		Key:   "home",
		Name:  "溫暖的家",
		Type:  RoomFamily,
		Exits: []string{StartRoomKey},
	},
	"pond": {
		Key:   "pond",
		Name:  "釣魚池",
		Type:  RoomFishing,
		Exits: []string{StartRoomKey, "letterBeach"},
	},
}

// LookupRoom returns a room definition by key
func LookupRoom(key string) (Room, bool) {
	room, ok := rooms[key]
	return room, ok
}

// RoomExists reports whether a room key resolves
func RoomExists(key string) bool {
	_, ok := rooms[key]
	return ok
}

// AllRooms returns every room definition, for map rendering
func AllRooms() []Room {
	out := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room)
	}
	return out
}

// ValidateRooms checks the static map invariants: the start room exists,
// every exit resolves to a defined room, and every battle room references a
// subject the question generator knows.
func ValidateRooms() error {
	el := errors.NewErrorList()

	if !RoomExists(StartRoomKey) {
		el.Add(fmt.Errorf("start room %q is not defined", StartRoomKey))
	}

	for key, room := range rooms {
		if room.Key != key {
			el.Add(fmt.Errorf("room %q declares mismatched key %q", key, room.Key))
		}
		for _, exit := range room.Exits {
			if !RoomExists(exit) {
				el.Add(fmt.Errorf("room %q has exit to undefined room %q", key, exit))
			}
		}
		if room.Type == RoomBattle && !KnownSubject(room.Subject) {
			el.Add(fmt.Errorf("battle room %q references unknown subject %q", key, room.Subject))
		}
	}

	return el.Err()
}
