// Package flash stores one-shot notices in the session, shown on the next rendered page.
package flash

import (
	"encoding/gob"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Category is the severity of a flash message, used as css class by the templates.
type Category string

const (
	Success Category = "success"
	Info    Category = "info"
	Warning Category = "warning"
	Danger  Category = "danger"
)

// Message is a flash message.
type Message struct {
	Category Category
	Text     string
}

func init() {
	// the cookie store encodes session values with gob
	gob.Register(Message{})
}

// Queue adds a message to the session without saving it.
func Queue(session sessions.Session, category Category, text string) {
	session.AddFlash(Message{Category: category, Text: text})
}

// Add queues a message and saves the session.
func Add(c *gin.Context, category Category, text string) {
	session := sessions.Default(c)
	Queue(session, category, text)
	if err := session.Save(); err != nil {
		log.Error("Failed to save flash message", "error", err)
	}
}

// Pop returns all queued messages and removes them from the session.
func Pop(c *gin.Context) []Message {
	session := sessions.Default(c)
	values := session.Flashes()
	if len(values) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Error("Failed to save session after reading flashes", "error", err)
	}

	messages := make([]Message, 0, len(values))
	for _, v := range values {
		if m, ok := v.(Message); ok {
			messages = append(messages, m)
		}
	}
	return messages
}
