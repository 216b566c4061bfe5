package redis

import (
	"fmt"

	"github.com/mcoot/rpsduel/internal/model"
)

const keyPrefix = "rpsduel"

func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey maps a username to its player id
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

func scoreKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:score:%s", keyPrefix, id)
}

// leaderboardKey is a sorted set of player id -> score
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}
