package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

type Store struct {
	db *sql.DB
	*TxManager
	repository.UserRepository
	repository.ClubRepository
	repository.ClubMemberRepository
	repository.JoinRequestRepository
	repository.FeeScheduleRepository
	repository.NotificationRepository
	repository.PostRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		TxManager:              NewTxManager(db),
		UserRepository:         NewUserRepository(db),
		ClubRepository:         NewClubRepository(db),
		ClubMemberRepository:   NewClubMemberRepository(db),
		JoinRequestRepository:  NewJoinRequestRepository(db),
		FeeScheduleRepository:  NewFeeScheduleRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		PostRepository:         NewPostRepository(db),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
