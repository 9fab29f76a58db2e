package models

import "time"

// ChatMessage is the user's raw request. The content is the source of truth
// for the whole pipeline run and is never mutated.
type ChatMessage struct {
	Content   string     `json:"content" binding:"required"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
}

// ChatResponse is the final prose reply, with the detected intent and
// entities attached for observability.
type ChatResponse struct {
	Response  string     `json:"response"`
	Timestamp time.Time  `json:"timestamp"`
	Intent    Intent     `json:"intent,omitempty"`
	Entities  *EntityBag `json:"entities,omitempty"`
}

// BookingRequest is the direct-booking endpoint payload.
type BookingRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Duration    int    `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Exchange is one user/agent turn kept in the conversation context cache.
type Exchange struct {
	User  string    `json:"user"`
	Agent string    `json:"agent"`
	At    time.Time `json:"at"`
}

// ConversationRecord is one archived pipeline run.
type ConversationRecord struct {
	ID        string     `bson:"id" json:"id"`
	UserID    string     `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Message   string     `bson:"message" json:"message"`
	Response  string     `bson:"response" json:"response"`
	Intent    Intent     `bson:"intent" json:"intent"`
	Entities  *EntityBag `bson:"entities,omitempty" json:"entities,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}
