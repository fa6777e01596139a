package book

import (
	"context"
	"time"
)

// 事件路由键
const (
	EventCreated = "book.created"
	EventUpdated = "book.updated"
	EventDeleted = "book.deleted"
)

// Event 图书领域事件(事务提交后发布)
// 删除事件不带Book快照
type Event struct {
	Type       string     `json:"type"`
	BookID     uint       `json:"book_id"`
	Book       *EventBook `json:"book,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// EventBook 事件中的图书快照
type EventBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

func newEvent(typ string, b *Book) Event {
	e := Event{
		Type:       typ,
		BookID:     b.ID,
		OccurredAt: time.Now().UTC(),
	}
	if typ != EventDeleted {
		e.Book = &EventBook{Title: b.Title, Author: b.Author, Year: b.Year}
	}
	return e
}

// EventPublisher 事件发布接口,由pkg/mq.Publisher实现
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
