package notification

import (
	"fmt"
	"time"
)

// Type represents the type of notification
type Type string

const (
	TypeTurnStarted  Type = "TURN_STARTED"
	TypeMovieDecided Type = "MOVIE_DECIDED"
)

// Notification represents a notification in the system
type Notification struct {
	ID          int64
	RecipientID int64
	Type        Type
	Message     string
	IsRead      bool
	GroupID     *int64
	MovieID     *int64
	CreatedAt   time.Time
}

// Draft is a notification that has not been stored yet
type Draft struct {
	RecipientID int64
	Type        Type
	Message     string
	GroupID     *int64
	MovieID     *int64
}

// TurnStarted tells the new proposer it is their turn
func TurnStarted(recipientID, groupID int64, groupName string) Draft {
	return Draft{
		RecipientID: recipientID,
		Type:        TypeTurnStarted,
		Message:     fmt.Sprintf("It's your turn to propose movies in %s", groupName),
		GroupID:     &groupID,
	}
}

// MovieDecided tells each recipient which movie the group picked
func MovieDecided(recipientIDs []int64, groupID int64, groupName string, movieID int64, title string) []Draft {
	drafts := make([]Draft, len(recipientIDs))
	for i, id := range recipientIDs {
		drafts[i] = Draft{
			RecipientID: id,
			Type:        TypeMovieDecided,
			Message:     fmt.Sprintf("%s is watching %s next", groupName, title),
			GroupID:     &groupID,
			MovieID:     &movieID,
		}
	}
	return drafts
}
