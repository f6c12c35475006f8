package service

import (
	"context"
	"fmt"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/notify"
	"github.com/huyhqq/Student-Club-Management-System/internal/policy"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

const (
	defaultPostPageSize = 10
	maxPostPageSize     = 100
)

type postService struct {
	clubRepo repository.ClubRepository
	members  repository.ClubMemberRepository
	posts    repository.PostRepository
	notifier Notifier
	tel      telemetry
	now      func() time.Time
}

func NewPostService(
	clubRepo repository.ClubRepository,
	members repository.ClubMemberRepository,
	posts repository.PostRepository,
	notifier Notifier,
	m *metrics.Metrics,
) PostService {
	return &postService{
		clubRepo: clubRepo,
		members:  members,
		posts:    posts,
		notifier: notifier,
		tel:      newTelemetry("PostService", m),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost publishes a post. Posting under a club requires the club to be Active and
// the actor to be one of its Approved members; Members posts notify the rest of the club.
func (s *postService) CreatePost(ctx context.Context, actor domain.Actor, in CreatePostInput) (*domain.Post, error) {
	return withTelemetry(ctx, s.tel, "CreatePost", actor, func(ctx context.Context) (*domain.Post, error) {
		content, err := validatePost(in.Content, in.Visibility, in.ClubID)
		if err != nil {
			return nil, err
		}

		var club *domain.Club
		if in.ClubID != nil {
			club, err = s.clubRepo.GetByID(ctx, *in.ClubID)
			if err != nil {
				return nil, err
			}
			if club.Status != domain.ClubStatusActive {
				return nil, domain.ErrClubNotAvailable
			}
			target, err := activeMembershipTarget(ctx, s.members, club.ID, actor.UserID)
			if err != nil {
				return nil, err
			}
			if err := policy.Authorize(actor, club, policy.ActionCreateClubPost, target); err != nil {
				return nil, err
			}
		}

		post := &domain.Post{
			UserID:     actor.UserID,
			ClubID:     in.ClubID,
			Content:    content,
			Visibility: in.Visibility,
			CreatedAt:  s.now(),
		}
		if err := s.posts.Create(ctx, post); err != nil {
			return nil, err
		}
		if club != nil {
			post.ClubName = &club.Name
			post.ClubStatus = club.Status
		}

		if club != nil && post.IsMembersOnly() {
			clubID := club.ID
			others := notify.Except(func(ctx context.Context) ([]int32, error) {
				return s.members.ListApprovedUserIDs(ctx, clubID)
			}, actor.UserID)
			s.notifier.NotifyAudience(ctx, others, "New club post",
				fmt.Sprintf("There is a new members-only post in %q.", club.Name))
		}
		return post, nil
	})
}

// UpdatePost replaces the content of a post. Only its author or an admin may edit it.
func (s *postService) UpdatePost(ctx context.Context, actor domain.Actor, postID int32, content string) (*domain.Post, error) {
	return withTelemetry(ctx, s.tel, "UpdatePost", actor, func(ctx context.Context) (*domain.Post, error) {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		if err := policy.Authorize(actor, nil, policy.ActionUpdatePost, policy.UserTarget(post.UserID)); err != nil {
			return nil, err
		}
		content, err = validatePost(content, post.Visibility, post.ClubID)
		if err != nil {
			return nil, err
		}

		now := s.now()
		if err := s.posts.UpdateContent(ctx, post.ID, content, now); err != nil {
			return nil, err
		}
		post.Content = content
		post.UpdatedAt = &now
		return post, nil
	})
}

func (s *postService) DeletePost(ctx context.Context, actor domain.Actor, postID int32) error {
	_, err := withTelemetry(ctx, s.tel, "DeletePost", actor, func(ctx context.Context) (struct{}, error) {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return struct{}{}, err
		}
		if err := policy.Authorize(actor, nil, policy.ActionDeletePost, policy.UserTarget(post.UserID)); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.posts.Delete(ctx, post.ID)
	})
	return err
}

// GetPost returns a post the actor may read: their own, any Public post, or a Members post
// of a club where they are an Approved member.
func (s *postService) GetPost(ctx context.Context, actor domain.Actor, postID int32) (*domain.Post, error) {
	return withTelemetry(ctx, s.tel, "GetPost", actor, func(ctx context.Context) (*domain.Post, error) {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		if post.UserID == actor.UserID || !post.IsMembersOnly() {
			return post, nil
		}
		if err := s.authorizeClubAudience(ctx, actor, *post.ClubID); err != nil {
			return nil, err
		}
		return post, nil
	})
}

// ListPosts pages through the posts visible to the actor. Filtering by a club is
// restricted to its Approved members.
func (s *postService) ListPosts(ctx context.Context, actor domain.Actor, q PostQuery) (*PostPage, error) {
	return withTelemetry(ctx, s.tel, "ListPosts", actor, func(ctx context.Context) (*PostPage, error) {
		filter, err := postFilter(q)
		if err != nil {
			return nil, err
		}
		filter.Audience = domain.PostAudienceViewer
		filter.ViewerID = actor.UserID
		if actor.IsAdmin() {
			filter.Audience = domain.PostAudienceAll
		}
		if q.ClubID != nil {
			if err := s.authorizeClubAudience(ctx, actor, *q.ClubID); err != nil {
				return nil, err
			}
		}
		return s.page(ctx, filter)
	})
}

// GetPublicPost reports Members posts and posts of inactive clubs as not found.
func (s *postService) GetPublicPost(ctx context.Context, postID int32) (*domain.Post, error) {
	return withTelemetry(ctx, s.tel, "GetPublicPost", domain.Actor{}, func(ctx context.Context) (*domain.Post, error) {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		if post.IsMembersOnly() || (post.ClubID != nil && post.ClubStatus != domain.ClubStatusActive) {
			return nil, domain.ErrPostNotFound
		}
		return post, nil
	})
}

func (s *postService) ListPublicPosts(ctx context.Context, q PostQuery) (*PostPage, error) {
	return withTelemetry(ctx, s.tel, "ListPublicPosts", domain.Actor{}, func(ctx context.Context) (*PostPage, error) {
		filter, err := postFilter(q)
		if err != nil {
			return nil, err
		}
		filter.Audience = domain.PostAudiencePublic
		return s.page(ctx, filter)
	})
}

func (s *postService) authorizeClubAudience(ctx context.Context, actor domain.Actor, clubID int32) error {
	if actor.IsAdmin() {
		return nil
	}
	target, err := activeMembershipTarget(ctx, s.members, clubID, actor.UserID)
	if err != nil {
		return err
	}
	return policy.Authorize(actor, nil, policy.ActionViewMembersPost, target)
}

func (s *postService) page(ctx context.Context, filter domain.PostFilter) (*PostPage, error) {
	items, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Post{}
	}
	return &PostPage{
		Items:    items,
		Total:    total,
		Page:     filter.Offset/filter.Limit + 1,
		PageSize: filter.Limit,
	}, nil
}

func postFilter(q PostQuery) (domain.PostFilter, error) {
	page, size := q.Page, q.PageSize
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = defaultPostPageSize
	}
	if page < 1 {
		return domain.PostFilter{}, domain.NewValidationError("page", "must be at least 1")
	}
	if size < 1 || size > maxPostPageSize {
		return domain.PostFilter{}, domain.NewValidationError("page_size", "must be between 1 and 100")
	}
	if q.Visibility != nil && !q.Visibility.Valid() {
		return domain.PostFilter{}, domain.NewValidationError("visibility", "must be Public or Members")
	}
	return domain.PostFilter{
		ClubID:     q.ClubID,
		Visibility: q.Visibility,
		Search:     q.Search,
		Sort:       q.Sort,
		Limit:      size,
		Offset:     (page - 1) * size,
	}, nil
}
