package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/repository"
	"pustakago/library-service/internal/app/library/repository/mocks"
	"pustakago/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func receiveBusEvent(t *testing.T, sub *eventbus.Subscription) eventbus.Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bus event")
		return eventbus.Event{}
	}
}

func assertNoBusEvent(t *testing.T, sub *eventbus.Subscription) {
	t.Helper()
	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected bus event: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAddBookmark_PersistsThenPublishes(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	sub := bus.Subscribe()
	defer sub.Cancel()

	ctx := context.Background()
	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	bookmarkRepo.On("Add", ctx, "user-1", "book-1").Return(true, nil)

	err := svc.AddBookmark(ctx, "user-1", "book-1")

	assert.NoError(t, err)

	event := receiveBusEvent(t, sub)
	assert.Equal(t, eventbus.BookmarkAdded, event.Type)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "book-1", event.BookID)
}

func TestAddBookmark_AlreadyExistsNoEvent(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	sub := bus.Subscribe()
	defer sub.Cancel()

	ctx := context.Background()
	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	// Upsert ничего не вставил - закладка уже была
	bookmarkRepo.On("Add", ctx, "user-1", "book-1").Return(false, nil)

	err := svc.AddBookmark(ctx, "user-1", "book-1")

	assert.NoError(t, err)
	// Состояние не изменилось - события быть не должно
	assertNoBusEvent(t, sub)
}

func TestAddBookmark_NoEventOnRepoError(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	sub := bus.Subscribe()
	defer sub.Cancel()

	ctx := context.Background()
	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	bookmarkRepo.On("Add", ctx, "user-1", "book-1").Return(false, errors.New("db error"))

	err := svc.AddBookmark(ctx, "user-1", "book-1")

	assert.Error(t, err)
	// Запись не удалась - события быть не должно
	assertNoBusEvent(t, sub)
}

func TestAddBookmark_BookNotFound(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	ctx := context.Background()
	bookRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrBookNotFound)

	err := svc.AddBookmark(ctx, "user-1", "missing")

	assert.ErrorIs(t, err, ErrBookNotFound)
	bookmarkRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveBookmark_PersistsThenPublishes(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	sub := bus.Subscribe()
	defer sub.Cancel()

	ctx := context.Background()
	bookmarkRepo.On("Remove", ctx, "user-1", "book-1").Return(nil)

	err := svc.RemoveBookmark(ctx, "user-1", "book-1")

	assert.NoError(t, err)

	event := receiveBusEvent(t, sub)
	assert.Equal(t, eventbus.BookmarkRemoved, event.Type)
	assert.Equal(t, "book-1", event.BookID)
}

func TestRemoveBookmark_NotFound(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	sub := bus.Subscribe()
	defer sub.Cancel()

	ctx := context.Background()
	bookmarkRepo.On("Remove", ctx, "user-1", "book-1").Return(repository.ErrBookmarkNotFound)

	err := svc.RemoveBookmark(ctx, "user-1", "book-1")

	assert.ErrorIs(t, err, ErrBookmarkNotFound)
	assertNoBusEvent(t, sub)
}

func TestToggleBookmark_AddsWhenAbsent(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	ctx := context.Background()
	bookmarkRepo.On("Exists", ctx, "user-1", "book-1").Return(false, nil)
	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	bookmarkRepo.On("Add", ctx, "user-1", "book-1").Return(true, nil)

	marked, err := svc.ToggleBookmark(ctx, "user-1", "book-1")

	assert.NoError(t, err)
	assert.True(t, marked)
}

func TestToggleBookmark_RemovesWhenPresent(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	ctx := context.Background()
	bookmarkRepo.On("Exists", ctx, "user-1", "book-1").Return(true, nil)
	bookmarkRepo.On("Remove", ctx, "user-1", "book-1").Return(nil)

	marked, err := svc.ToggleBookmark(ctx, "user-1", "book-1")

	assert.NoError(t, err)
	assert.False(t, marked)
}

func TestIsBookmarked(t *testing.T) {
	bookmarkRepo := new(mocks.MockBookmarkRepository)
	bookRepo := new(mocks.MockBookRepository)
	bus := eventbus.New()
	defer bus.Close()
	svc := NewBookmarkService(bookmarkRepo, bookRepo, bus)

	ctx := context.Background()
	bookmarkRepo.On("Exists", ctx, "user-1", "book-1").Return(true, nil)

	marked, err := svc.IsBookmarked(ctx, "user-1", "book-1")

	assert.NoError(t, err)
	assert.True(t, marked)
}
