package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"intake/internal/intake/models"
	id "intake/pkg/domain"
	"intake/pkg/platform/sentinel"
)

type RedisStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mini.Addr()})
	s.store = New(client)
}

func (s *RedisStoreSuite) newRecord() *models.ClientRecord {
	record, err := models.NewClientRecord(id.NewClientID(), "CLI000001")
	s.Require().NoError(err)
	return record
}

func (s *RedisStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	record := s.newRecord()
	record.Applicant = &models.Applicant{FirstName: "Jane", LastName: "Doe"}

	s.Require().NoError(s.store.Create(ctx, record))
	s.Equal(int64(1), record.Version)

	found, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.ID, found.ID)
	s.Require().NotNil(found.Applicant)
	s.Equal("Jane", found.Applicant.FirstName)

	s.ErrorIs(s.store.Create(ctx, record), sentinel.ErrConflict)
}

func (s *RedisStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewClientID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestExecute() {
	ctx := context.Background()
	record := s.newRecord()
	s.Require().NoError(s.store.Create(ctx, record))

	updated, err := s.store.Execute(ctx, record.ID,
		func(*models.ClientRecord) error { return nil },
		func(r *models.ClientRecord) {
			r.Renters = &models.Renters{HasRentersInsurance: true}
		},
	)
	s.Require().NoError(err)
	s.Equal(int64(2), updated.Version)

	found, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Renters)
	s.True(found.Renters.HasRentersInsurance)
	s.Equal(int64(2), found.Version)
}

func (s *RedisStoreSuite) TestExecuteMissingRecord() {
	_, err := s.store.Execute(context.Background(), id.NewClientID(),
		func(*models.ClientRecord) error { return nil },
		func(*models.ClientRecord) {},
	)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestExecuteValidateFailure() {
	ctx := context.Background()
	record := s.newRecord()
	s.Require().NoError(s.store.Create(ctx, record))

	boom := sentinel.ErrConflict
	_, err := s.store.Execute(ctx, record.ID,
		func(*models.ClientRecord) error { return boom },
		func(r *models.ClientRecord) {
			r.Applicant = &models.Applicant{FirstName: "should not persist"}
		},
	)
	s.ErrorIs(err, boom)

	found, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Nil(found.Applicant)
	s.Equal(int64(1), found.Version)
}

func (s *RedisStoreSuite) TestNextSequence() {
	ctx := context.Background()
	first, err := s.store.NextSequence(ctx)
	s.Require().NoError(err)
	second, err := s.store.NextSequence(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), first)
	s.Equal(int64(2), second)
}
