package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DirtyBookRepositoryTestSuite тестовый suite для очереди сверки на Redis
type DirtyBookRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      DirtyBookRepository
}

func TestDirtyBookRepositorySuite(t *testing.T) {
	suite.Run(t, new(DirtyBookRepositoryTestSuite))
}

func (s *DirtyBookRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.repo = NewDirtyBookRepository(s.client)
}

func (s *DirtyBookRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *DirtyBookRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *DirtyBookRepositoryTestSuite) TestMarkDirtyDeduplicates() {
	ctx := context.Background()

	s.NoError(s.repo.MarkDirty(ctx, "book-1"))
	s.NoError(s.repo.MarkDirty(ctx, "book-1"))
	s.NoError(s.repo.MarkDirty(ctx, "book-2"))

	backlog, err := s.repo.Backlog(ctx)
	s.NoError(err)
	s.Equal(int64(2), backlog)
}

func (s *DirtyBookRepositoryTestSuite) TestPopDirtyDrainsQueue() {
	ctx := context.Background()

	s.NoError(s.repo.MarkDirty(ctx, "book-1"))
	s.NoError(s.repo.MarkDirty(ctx, "book-2"))
	s.NoError(s.repo.MarkDirty(ctx, "book-3"))

	ids, err := s.repo.PopDirty(ctx, 10)
	s.NoError(err)
	s.ElementsMatch([]string{"book-1", "book-2", "book-3"}, ids)

	backlog, err := s.repo.Backlog(ctx)
	s.NoError(err)
	s.Equal(int64(0), backlog)
}

func (s *DirtyBookRepositoryTestSuite) TestPopDirtyRespectsLimit() {
	ctx := context.Background()

	s.NoError(s.repo.MarkDirty(ctx, "book-1"))
	s.NoError(s.repo.MarkDirty(ctx, "book-2"))
	s.NoError(s.repo.MarkDirty(ctx, "book-3"))

	ids, err := s.repo.PopDirty(ctx, 2)
	s.NoError(err)
	s.Len(ids, 2)

	backlog, err := s.repo.Backlog(ctx)
	s.NoError(err)
	s.Equal(int64(1), backlog)
}

func (s *DirtyBookRepositoryTestSuite) TestPopDirtyEmptyQueue() {
	ids, err := s.repo.PopDirty(context.Background(), 10)

	s.NoError(err)
	s.Empty(ids)
}
