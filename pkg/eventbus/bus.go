package eventbus

import (
	"sync"
)

// EventType тип события закладки
type EventType string

const (
	BookmarkAdded   EventType = "BOOKMARK_ADDED"
	BookmarkRemoved EventType = "BOOKMARK_REMOVED"
)

// Event событие изменения закладки пользователя
// Не персистентное: доставляется только живым подписчикам и забывается
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	BookID string    `json:"book_id"`
}

// Bus интерфейс внутрипроцессной шины событий закладок
// Передается зависимостью в конструкторы, а не через глобальное состояние
type Bus interface {
	// Publish отправляет событие всем текущим подписчикам, никогда не блокируется
	Publish(event Event)
	// Subscribe создает независимую подписку; доставляются только события,
	// опубликованные после подписки
	Subscribe() *Subscription
	// Close отменяет все подписки и запрещает дальнейшие публикации
	Close()
}

// BookmarkBus реализация Bus поверх неограниченных очередей на подписку.
// Порядок доставки каждому подписчику совпадает с порядком завершения
// вызовов Publish: очереди пополняются под общим мьютексом шины.
type BookmarkBus struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

func New() *BookmarkBus {
	return &BookmarkBus{
		subs: make(map[uint64]*Subscription),
	}
}

func (b *BookmarkBus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		sub.enqueue(event)
	}
}

func (b *BookmarkBus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		bus:  b,
		out:  make(chan Event),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	if b.closed {
		// Шина остановлена: возвращаем уже закрытую подписку,
		// чтобы цикл чтения подписчика завершился сразу.
		// done закрывается через stop: последующий Cancel безопасен
		close(sub.out)
		sub.stop()
		return sub
	}

	b.nextID++
	sub.id = b.nextID
	b.subs[sub.id] = sub

	go sub.pump()

	return sub
}

func (b *BookmarkBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.subs = make(map[uint64]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (b *BookmarkBus) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Subscription одна живая подписка на события шины.
// Очередь не ограничена: медленный или упавший подписчик не тормозит
// ни публикующих, ни других подписчиков
type Subscription struct {
	id   uint64
	bus  *BookmarkBus
	out  chan Event
	done chan struct{}
	wake chan struct{}

	mu    sync.Mutex
	queue []Event

	cancelOnce sync.Once
}

// Events канал доставки; закрывается после Cancel или Close шины
func (s *Subscription) Events() <-chan Event {
	return s.out
}

// Cancel освобождает ресурсы подписки, не затрагивая остальных подписчиков
func (s *Subscription) Cancel() {
	s.bus.remove(s.id)
	s.stop()
}

func (s *Subscription) stop() {
	s.cancelOnce.Do(func() {
		close(s.done)
	})
}

// enqueue вызывается шиной под её мьютексом; только добавляет в очередь
// и будит pump, поэтому Publish не блокируется о потребителя
func (s *Subscription) enqueue(event Event) {
	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump перекачивает накопленную очередь в канал подписчика
func (s *Subscription) pump() {
	defer close(s.out)

	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			event := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case s.out <- event:
			case <-s.done:
				return
			}
		}
	}
}
