package services

import (
	"sort"
	"strings"
	"time"

	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories. It
// implements every repository interface and mirrors the database semantics
// the engines rely on: gorm.ErrRecordNotFound on misses and
// gorm.ErrDuplicatedKey on unique-index violations, including the
// case-insensitive username index.
type memStore struct {
	users         map[uint]models.User
	posts         map[uint]models.Post
	comments      map[uint]models.Comment
	likes         map[uint]models.Like
	follows       map[uint]models.Follow
	conversations map[uint]models.Conversation
	messages      map[uint]models.Message
	notifications map[uint]models.Notification
	nextID        uint
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uint]models.User{},
		posts:         map[uint]models.Post{},
		comments:      map[uint]models.Comment{},
		likes:         map[uint]models.Like{},
		follows:       map[uint]models.Follow{},
		conversations: map[uint]models.Conversation{},
		messages:      map[uint]models.Message{},
		notifications: map[uint]models.Notification{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// --- UserRepository ---

func (s *memStore) CreateUser(user *models.User) error {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = s.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *memStore) GetUserByID(id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *memStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memStore) SearchUsers(query string, offset, limit int) ([]models.User, int64, error) {
	var matched []models.User
	for _, u := range s.users {
		if query == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

func (s *memStore) UpdateUser(user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, u := range s.users {
		if u.ID == user.ID {
			continue
		}
		if strings.EqualFold(u.Username, user.Username) || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *memStore) DeleteUser(id uint) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	ownPosts := map[uint]bool{}
	for pid, p := range s.posts {
		if p.AuthorID == id {
			ownPosts[pid] = true
			delete(s.posts, pid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id || ownPosts[c.PostID] {
			delete(s.comments, cid)
		}
	}
	for lid, l := range s.likes {
		if l.UserID == id || ownPosts[l.PostID] {
			delete(s.likes, lid)
		}
	}
	for fid, f := range s.follows {
		if f.FollowerID == id || f.FollowingID == id {
			delete(s.follows, fid)
		}
	}
	for cid, c := range s.conversations {
		if c.HasParticipant(id) {
			for mid, m := range s.messages {
				if m.ConversationID == cid {
					delete(s.messages, mid)
				}
			}
			delete(s.conversations, cid)
		}
	}
	for nid, n := range s.notifications {
		if n.ActorID == id || n.RecipientID == id {
			delete(s.notifications, nid)
		}
	}
	delete(s.users, id)
	return nil
}

// --- PostRepository ---

func (s *memStore) CreatePost(post *models.Post) error {
	post.ID = s.id()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	s.posts[post.ID] = *post
	return nil
}

func (s *memStore) GetPostByID(id uint) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (s *memStore) sortedPosts(filter func(models.Post) bool) []models.Post {
	var out []models.Post
	for _, p := range s.posts {
		if filter == nil || filter(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *memStore) GetPosts(offset, limit int) ([]models.Post, int64, error) {
	all := s.sortedPosts(nil)
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (s *memStore) GetPostsByAuthor(authorID uint, offset, limit int) ([]models.Post, int64, error) {
	all := s.sortedPosts(func(p models.Post) bool { return p.AuthorID == authorID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (s *memStore) UpdatePost(post *models.Post) error {
	if _, ok := s.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	post.UpdatedAt = time.Now()
	s.posts[post.ID] = *post
	return nil
}

func (s *memStore) DeletePost(id uint) error {
	if _, ok := s.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	for lid, l := range s.likes {
		if l.PostID == id {
			delete(s.likes, lid)
		}
	}
	delete(s.posts, id)
	return nil
}

func (s *memStore) CountPostsByAuthor(authorID uint) (int64, error) {
	var n int64
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CountPostsByAuthors(authorIDs []uint) (map[uint]int64, error) {
	out := map[uint]int64{}
	for _, id := range authorIDs {
		n, _ := s.CountPostsByAuthor(id)
		out[id] = n
	}
	return out, nil
}

// --- CommentRepository ---

func (s *memStore) CreateComment(comment *models.Comment) error {
	comment.ID = s.id()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	s.comments[comment.ID] = *comment
	return nil
}

func (s *memStore) GetCommentByID(id uint) (*models.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (s *memStore) sortedComments(postID uint) []models.Comment {
	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *memStore) GetCommentsByPostID(postID uint, offset, limit int) ([]models.Comment, int64, error) {
	all := s.sortedComments(postID)
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (s *memStore) GetAllCommentsByPostID(postID uint) ([]models.Comment, error) {
	return s.sortedComments(postID), nil
}

func (s *memStore) UpdateComment(comment *models.Comment) error {
	if _, ok := s.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	comment.UpdatedAt = time.Now()
	s.comments[comment.ID] = *comment
	return nil
}

func (s *memStore) DeleteComment(id uint) error {
	if _, ok := s.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *memStore) CountCommentsByAuthor(authorID uint) (int64, error) {
	var n int64
	for _, c := range s.comments {
		if c.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CountCommentsByPostIDs(postIDs []uint) (map[uint]int64, error) {
	out := map[uint]int64{}
	for _, c := range s.comments {
		out[c.PostID]++
	}
	return out, nil
}

// --- LikeRepository ---

func (s *memStore) CreateLike(like *models.Like) error {
	for _, l := range s.likes {
		if l.UserID == like.UserID && l.PostID == like.PostID {
			return gorm.ErrDuplicatedKey
		}
	}
	like.ID = s.id()
	like.CreatedAt = time.Now()
	s.likes[like.ID] = *like
	return nil
}

func (s *memStore) DeleteLike(userID, postID uint) error {
	for lid, l := range s.likes {
		if l.UserID == userID && l.PostID == postID {
			delete(s.likes, lid)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *memStore) HasUserLikedPost(userID, postID uint) (bool, error) {
	for _, l := range s.likes {
		if l.UserID == userID && l.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) GetLikers(postID uint, offset, limit int) ([]models.User, int64, error) {
	var likes []models.Like
	for _, l := range s.likes {
		if l.PostID == postID {
			likes = append(likes, l)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].ID > likes[j].ID })
	users := make([]models.User, 0, len(likes))
	for _, l := range likes {
		if u, ok := s.users[l.UserID]; ok {
			users = append(users, u)
		}
	}
	return paginate(users, offset, limit), int64(len(users)), nil
}

func (s *memStore) GetLikeUserIDs(postID uint) ([]uint, error) {
	var out []uint
	for _, l := range s.likes {
		if l.PostID == postID {
			out = append(out, l.UserID)
		}
	}
	return out, nil
}

func (s *memStore) CountLikesByUser(userID uint) (int64, error) {
	var n int64
	for _, l := range s.likes {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CountLikesByPostIDs(postIDs []uint) (map[uint]int64, error) {
	out := map[uint]int64{}
	for _, l := range s.likes {
		out[l.PostID]++
	}
	return out, nil
}

func (s *memStore) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	for _, l := range s.likes {
		if l.UserID == userID {
			out[l.PostID] = true
		}
	}
	return out, nil
}

// --- FollowRepository ---

func (s *memStore) CreateFollow(follow *models.Follow) error {
	for _, f := range s.follows {
		if f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID {
			return gorm.ErrDuplicatedKey
		}
	}
	follow.ID = s.id()
	follow.CreatedAt = time.Now()
	s.follows[follow.ID] = *follow
	return nil
}

func (s *memStore) DeleteFollow(followerID, followingID uint) error {
	for fid, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			delete(s.follows, fid)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *memStore) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) followEdges(filter func(models.Follow) bool) []models.Follow {
	var out []models.Follow
	for _, f := range s.follows {
		if filter(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *memStore) GetFollowers(userID uint, offset, limit int) ([]models.User, int64, error) {
	edges := s.followEdges(func(f models.Follow) bool { return f.FollowingID == userID })
	users := make([]models.User, 0, len(edges))
	for _, f := range edges {
		if u, ok := s.users[f.FollowerID]; ok {
			users = append(users, u)
		}
	}
	return paginate(users, offset, limit), int64(len(users)), nil
}

func (s *memStore) GetFollowing(userID uint, offset, limit int) ([]models.User, int64, error) {
	edges := s.followEdges(func(f models.Follow) bool { return f.FollowerID == userID })
	users := make([]models.User, 0, len(edges))
	for _, f := range edges {
		if u, ok := s.users[f.FollowingID]; ok {
			users = append(users, u)
		}
	}
	return paginate(users, offset, limit), int64(len(users)), nil
}

func (s *memStore) GetFollowersCount(userID uint) (int64, error) {
	var n int64
	for _, f := range s.follows {
		if f.FollowingID == userID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) GetFollowingCount(userID uint) (int64, error) {
	var n int64
	for _, f := range s.follows {
		if f.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

// --- ConversationRepository ---

func (s *memStore) CreateConversation(conversation *models.Conversation) error {
	for _, c := range s.conversations {
		if c.UserAID == conversation.UserAID && c.UserBID == conversation.UserBID {
			return gorm.ErrDuplicatedKey
		}
	}
	conversation.ID = s.id()
	conversation.CreatedAt = time.Now()
	conversation.UpdatedAt = conversation.CreatedAt
	s.conversations[conversation.ID] = *conversation
	return nil
}

func (s *memStore) GetConversationByID(id uint) (*models.Conversation, error) {
	c, ok := s.conversations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (s *memStore) GetConversationByPair(userA, userB uint) (*models.Conversation, error) {
	for _, c := range s.conversations {
		if c.UserAID == userA && c.UserBID == userB {
			c := c
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) GetConversationsByParticipant(userID uint) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range s.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *memStore) TouchConversation(id uint, at time.Time) error {
	c, ok := s.conversations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.UpdatedAt = at
	s.conversations[id] = c
	return nil
}

// --- MessageRepository ---

func (s *memStore) CreateMessage(message *models.Message) error {
	message.ID = s.id()
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt
	s.messages[message.ID] = *message
	return nil
}

func (s *memStore) GetMessageByID(id uint) (*models.Message, error) {
	m, ok := s.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (s *memStore) GetMessagesByConversation(conversationID uint) ([]models.Message, error) {
	var out []models.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetLatestByConversationIDs(conversationIDs []uint) (map[uint]models.Message, error) {
	out := map[uint]models.Message{}
	for _, m := range s.messages {
		if prev, ok := out[m.ConversationID]; !ok || m.ID > prev.ID {
			out[m.ConversationID] = m
		}
	}
	return out, nil
}

func (s *memStore) UpdateMessage(message *models.Message) error {
	if _, ok := s.messages[message.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	message.UpdatedAt = time.Now()
	s.messages[message.ID] = *message
	return nil
}

func (s *memStore) DeleteMessage(id uint) error {
	if _, ok := s.messages[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.messages, id)
	return nil
}

// --- NotificationRepository ---

func (s *memStore) CreateNotification(notification *models.Notification) error {
	notification.ID = s.id()
	notification.CreatedAt = time.Now()
	s.notifications[notification.ID] = *notification
	return nil
}

func (s *memStore) GetNotificationByID(id uint) (*models.Notification, error) {
	n, ok := s.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (s *memStore) GetNotificationsByRecipient(recipientID uint, offset, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (s *memStore) CountUnread(recipientID uint) (int64, error) {
	var n int64
	for _, ntf := range s.notifications {
		if ntf.RecipientID == recipientID && !ntf.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *memStore) MarkRead(id uint) error {
	n, ok := s.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	return nil
}

func (s *memStore) MarkAllRead(recipientID uint) error {
	for id, n := range s.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
			s.notifications[id] = n
		}
	}
	return nil
}

// seedUser inserts a user directly into the store and returns it.
func (s *memStore) seedUser(username string) *models.User {
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$notarealhash",
	}
	if err := s.CreateUser(u); err != nil {
		panic(err)
	}
	return u
}
