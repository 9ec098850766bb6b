package services

import (
	"errors"
	"strings"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/repositories"
	"gorm.io/gorm"
)

// ContentService owns posts, comments and likes. Every mutation is gated on
// ownership through Authorize; listings resolve authors to UserRef
// projections.
type ContentService interface {
	CreatePost(authorID uint, req *models.CreatePostRequest) (*models.PostView, error)
	GetPost(id, viewerID uint) (*models.PostDetail, error)
	ListPosts(viewerID uint, page, limit int) ([]models.PostView, models.Pagination, error)
	ListUserPosts(userID, viewerID uint, page, limit int) ([]models.PostView, models.Pagination, error)
	UpdatePost(postID, actorID uint, patch *models.UpdatePostRequest) (*models.PostView, error)
	DeletePost(postID, actorID uint) error

	CreateComment(authorID uint, req *models.CreateCommentRequest) (*models.CommentView, error)
	GetComment(id uint) (*models.CommentView, error)
	ListComments(postID uint, page, limit int) ([]models.CommentView, models.Pagination, error)
	UpdateComment(commentID, actorID uint, content string) (*models.CommentView, error)
	DeleteComment(commentID, actorID uint) error

	LikePost(userID, postID uint) error
	UnlikePost(userID, postID uint) error
	HasLiked(userID, postID uint) (bool, error)
	ListLikes(postID uint, page, limit int) ([]models.UserRef, models.Pagination, error)
}

type contentService struct {
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

// NewContentService creates the content engine.
func NewContentService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
) ContentService {
	return &contentService{
		posts:         posts,
		comments:      comments,
		likes:         likes,
		users:         users,
		notifications: notifications,
	}
}

// CreatePost inserts a post; a post must carry content, an image URL, or both.
func (s *contentService) CreatePost(authorID uint, req *models.CreatePostRequest) (*models.PostView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" {
		return nil, apperr.InvalidArgument("post must have either content or an image")
	}

	author, err := s.users.GetUserByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	post := &models.Post{AuthorID: authorID, Content: content, ImageURL: req.ImageURL}
	if err := s.posts.CreatePost(post); err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.PostView{Post: *post, Author: author.ToRef()}, nil
}

// GetPost returns a single post with author, all comments (newest first) and
// the ids of users who liked it. viewerID may be zero for anonymous reads.
func (s *contentService) GetPost(id, viewerID uint) (*models.PostDetail, error) {
	post, err := s.posts.GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal(err)
	}

	comments, err := s.comments.GetAllCommentsByPostID(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	likeUserIDs, err := s.likes.GetLikeUserIDs(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	authorIDs := []uint{post.AuthorID}
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	refs, err := s.userRefs(authorIDs)
	if err != nil {
		return nil, err
	}

	commentViews := make([]models.CommentView, len(comments))
	for i, c := range comments {
		commentViews[i] = models.CommentView{Comment: c, Author: refs[c.AuthorID]}
	}

	liked := false
	for _, uid := range likeUserIDs {
		if uid == viewerID && viewerID != 0 {
			liked = true
			break
		}
	}
	if likeUserIDs == nil {
		likeUserIDs = []uint{}
	}

	return &models.PostDetail{
		PostView: models.PostView{
			Post:          *post,
			Author:        refs[post.AuthorID],
			LikesCount:    int64(len(likeUserIDs)),
			CommentsCount: int64(len(comments)),
			Liked:         liked,
		},
		Comments:    commentViews,
		LikeUserIDs: likeUserIDs,
	}, nil
}

// ListPosts pages through all posts, newest first.
func (s *contentService) ListPosts(viewerID uint, page, limit int) ([]models.PostView, models.Pagination, error) {
	posts, total, err := s.posts.GetPosts((page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	views, err := s.buildPostViews(posts, viewerID)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return views, models.NewPagination(page, limit, total), nil
}

// ListUserPosts pages through one author's posts, newest first.
func (s *contentService) ListUserPosts(userID, viewerID uint, page, limit int) ([]models.PostView, models.Pagination, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Pagination{}, apperr.NotFound("user not found")
		}
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	posts, total, err := s.posts.GetPostsByAuthor(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	views, err := s.buildPostViews(posts, viewerID)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return views, models.NewPagination(page, limit, total), nil
}

// UpdatePost applies a partial patch to the author's own post. The
// content-or-image invariant holds after the patch as well.
func (s *contentService) UpdatePost(postID, actorID uint, patch *models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal(err)
	}
	if !Authorize(actorID, post.AuthorID) {
		return nil, apperr.Forbidden("you are not authorized to update this post")
	}

	if patch.Content != nil {
		post.Content = strings.TrimSpace(*patch.Content)
	}
	if patch.ImageURL != nil {
		post.ImageURL = *patch.ImageURL
	}
	if post.Content == "" && post.ImageURL == "" {
		return nil, apperr.InvalidArgument("post must have either content or an image")
	}

	if err := s.posts.UpdatePost(post); err != nil {
		return nil, apperr.Internal(err)
	}

	author, err := s.users.GetUserByID(post.AuthorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.PostView{Post: *post, Author: author.ToRef()}, nil
}

// DeletePost removes the author's own post, cascading its comments and likes.
func (s *contentService) DeletePost(postID, actorID uint) error {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post not found")
		}
		return apperr.Internal(err)
	}
	if !Authorize(actorID, post.AuthorID) {
		return apperr.Forbidden("you are not authorized to delete this post")
	}
	if err := s.posts.DeletePost(postID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// CreateComment adds a comment to an existing post and notifies its author.
func (s *contentService) CreateComment(authorID uint, req *models.CreateCommentRequest) (*models.CommentView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.InvalidArgument("comment content is required")
	}

	post, err := s.posts.GetPostByID(req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal(err)
	}
	author, err := s.users.GetUserByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	comment := &models.Comment{PostID: req.PostID, AuthorID: authorID, Content: content}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, apperr.Internal(err)
	}

	if post.AuthorID != authorID {
		notification := &models.Notification{
			Type:        models.NotificationComment,
			ActorID:     authorID,
			RecipientID: post.AuthorID,
			TargetID:    post.ID,
			Message:     author.Username + " commented on your post",
		}
		if err := s.notifications.CreateNotification(notification); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return &models.CommentView{Comment: *comment, Author: author.ToRef()}, nil
}

// GetComment returns a single comment with its author resolved.
func (s *contentService) GetComment(id uint) (*models.CommentView, error) {
	comment, err := s.comments.GetCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Internal(err)
	}
	author, err := s.users.GetUserByID(comment.AuthorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}
	view := &models.CommentView{Comment: *comment}
	if author != nil {
		view.Author = author.ToRef()
	}
	return view, nil
}

// ListComments pages through a post's comments, newest first.
func (s *contentService) ListComments(postID uint, page, limit int) ([]models.CommentView, models.Pagination, error) {
	if _, err := s.posts.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Pagination{}, apperr.NotFound("post not found")
		}
		return nil, models.Pagination{}, apperr.Internal(err)
	}

	comments, total, err := s.comments.GetCommentsByPostID(postID, (page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}

	authorIDs := make([]uint, len(comments))
	for i, c := range comments {
		authorIDs[i] = c.AuthorID
	}
	refs, err := s.userRefs(authorIDs)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	views := make([]models.CommentView, len(comments))
	for i, c := range comments {
		views[i] = models.CommentView{Comment: c, Author: refs[c.AuthorID]}
	}
	return views, models.NewPagination(page, limit, total), nil
}

// UpdateComment edits the author's own comment.
func (s *contentService) UpdateComment(commentID, actorID uint, content string) (*models.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("comment content is required")
	}

	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Internal(err)
	}
	if !Authorize(actorID, comment.AuthorID) {
		return nil, apperr.Forbidden("you are not authorized to update this comment")
	}

	comment.Content = content
	if err := s.comments.UpdateComment(comment); err != nil {
		return nil, apperr.Internal(err)
	}

	author, err := s.users.GetUserByID(comment.AuthorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.CommentView{Comment: *comment, Author: author.ToRef()}, nil
}

// DeleteComment removes the author's own comment.
func (s *contentService) DeleteComment(commentID, actorID uint) error {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("comment not found")
		}
		return apperr.Internal(err)
	}
	if !Authorize(actorID, comment.AuthorID) {
		return apperr.Forbidden("you are not authorized to delete this comment")
	}
	if err := s.comments.DeleteComment(commentID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// LikePost inserts a like. The composite unique index guarantees at most
// one like row per (user, post) pair even when toggles race; the loser
// observes AlreadyExists, which well-behaved clients treat as a no-op.
func (s *contentService) LikePost(userID, postID uint) error {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post not found")
		}
		return apperr.Internal(err)
	}
	actor, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	like := &models.Like{UserID: userID, PostID: postID}
	if err := s.likes.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.AlreadyExists("you already liked this post")
		}
		return apperr.Internal(err)
	}

	if post.AuthorID != userID {
		notification := &models.Notification{
			Type:        models.NotificationLike,
			ActorID:     userID,
			RecipientID: post.AuthorID,
			TargetID:    post.ID,
			Message:     actor.Username + " liked your post",
		}
		if err := s.notifications.CreateNotification(notification); err != nil {
			return apperr.Internal(err)
		}
	}
	return nil
}

// UnlikePost removes a like, failing with NotFound when none exists.
func (s *contentService) UnlikePost(userID, postID uint) error {
	if err := s.likes.DeleteLike(userID, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("you have not liked this post")
		}
		return apperr.Internal(err)
	}
	return nil
}

// HasLiked reports whether userID has liked postID.
func (s *contentService) HasLiked(userID, postID uint) (bool, error) {
	if _, err := s.posts.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("post not found")
		}
		return false, apperr.Internal(err)
	}
	liked, err := s.likes.HasUserLikedPost(userID, postID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return liked, nil
}

// ListLikes pages through the users who liked a post, most recent first.
func (s *contentService) ListLikes(postID uint, page, limit int) ([]models.UserRef, models.Pagination, error) {
	if _, err := s.posts.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Pagination{}, apperr.NotFound("post not found")
		}
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	users, total, err := s.likes.GetLikers(postID, (page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	return toRefs(users), models.NewPagination(page, limit, total), nil
}

// buildPostViews resolves authors and aggregate counters for a page of posts.
func (s *contentService) buildPostViews(posts []models.Post, viewerID uint) ([]models.PostView, error) {
	postIDs := make([]uint, len(posts))
	authorIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		authorIDs[i] = p.AuthorID
	}

	refs, err := s.userRefs(authorIDs)
	if err != nil {
		return nil, err
	}
	likeCounts, err := s.likes.CountLikesByPostIDs(postIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	commentCounts, err := s.comments.CountCommentsByPostIDs(postIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	liked := map[uint]bool{}
	if viewerID != 0 {
		liked, err = s.likes.GetLikedPostIDs(viewerID, postIDs)
		if err != nil {
			return nil, apperr.Internal(err)
		}
	}

	views := make([]models.PostView, len(posts))
	for i, p := range posts {
		views[i] = models.PostView{
			Post:          p,
			Author:        refs[p.AuthorID],
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
			Liked:         liked[p.ID],
		}
	}
	return views, nil
}

// userRefs fetches the given users and returns them as projections keyed by id.
func (s *contentService) userRefs(ids []uint) (map[uint]models.UserRef, error) {
	users, err := s.users.GetUsersByIDs(dedupe(ids))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refs := make(map[uint]models.UserRef, len(users))
	for i := range users {
		refs[users[i].ID] = users[i].ToRef()
	}
	return refs, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
