package telegram

import (
	"context"
	"sync"
)

// one game per chat at a time
var runningGames sync.Map // chatID -> context.CancelFunc

func markRunning(chatID int64, cancel context.CancelFunc) bool {
	_, loaded := runningGames.LoadOrStore(chatID, cancel)
	return !loaded
}

func stopRunning(chatID int64) bool {
	v, ok := runningGames.LoadAndDelete(chatID)
	if !ok {
		return false
	}
	v.(context.CancelFunc)()
	return true
}

func clearRunning(chatID int64) {
	runningGames.Delete(chatID)
}
