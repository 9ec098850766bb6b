package services

import (
	"errors"
	"strings"
	"time"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/repositories"
	"gorm.io/gorm"
)

// ConversationService owns two-party conversations and their messages.
type ConversationService interface {
	GetOrCreateConversation(actorID, participantID uint) (*models.ConversationView, error)
	ListConversations(actorID uint) ([]models.ConversationView, error)
	SendMessage(actorID uint, req *models.SendMessageRequest) (*models.MessageView, error)
	ListMessages(conversationID, actorID uint) ([]models.MessageView, error)
	EditMessage(messageID, actorID uint, content string) (*models.MessageView, error)
	DeleteMessage(messageID, actorID uint) error
}

type conversationService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

// NewConversationService creates the conversation engine.
func NewConversationService(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
) ConversationService {
	return &conversationService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		notifications: notifications,
	}
}

// GetOrCreateConversation returns the one conversation for the unordered
// (actor, participant) pair, creating it on first contact. The pair is
// normalized before lookup and insert, so the composite unique index settles
// concurrent creations: the loser re-reads and both callers converge on the
// same row.
func (s *conversationService) GetOrCreateConversation(actorID, participantID uint) (*models.ConversationView, error) {
	if actorID == participantID {
		return nil, apperr.InvalidArgument("you cannot start a conversation with yourself")
	}
	if _, err := s.users.GetUserByID(participantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	a, b := models.NormalizePair(actorID, participantID)

	conversation, err := s.conversations.GetConversationByPair(a, b)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal(err)
		}
		conversation = &models.Conversation{UserAID: a, UserBID: b}
		if err := s.conversations.CreateConversation(conversation); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperr.Internal(err)
			}
			// Lost the creation race; the winner's row is authoritative.
			conversation, err = s.conversations.GetConversationByPair(a, b)
			if err != nil {
				return nil, apperr.Internal(err)
			}
		}
	}

	return s.buildConversationView(conversation, nil)
}

// ListConversations lists the caller's conversations, most recently active
// first, each annotated with its latest message.
func (s *conversationService) ListConversations(actorID uint) ([]models.ConversationView, error) {
	conversations, err := s.conversations.GetConversationsByParticipant(actorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ids := make([]uint, len(conversations))
	userIDs := make([]uint, 0, len(conversations)*2)
	for i, c := range conversations {
		ids[i] = c.ID
		userIDs = append(userIDs, c.UserAID, c.UserBID)
	}

	latest, err := s.messages.GetLatestByConversationIDs(ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, m := range latest {
		userIDs = append(userIDs, m.SenderID)
	}

	refs, err := s.refsFor(userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConversationView, len(conversations))
	for i, c := range conversations {
		view := models.ConversationView{
			ID:           c.ID,
			Participants: []models.UserRef{refs[c.UserAID], refs[c.UserBID]},
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}
		if m, ok := latest[c.ID]; ok {
			view.LastMessage = &models.MessageView{Message: m, Sender: refs[m.SenderID]}
		}
		views[i] = view
	}
	return views, nil
}

// SendMessage appends a message to a conversation the sender participates
// in, bumps the conversation's updated_at and notifies the other party.
func (s *conversationService) SendMessage(actorID uint, req *models.SendMessageRequest) (*models.MessageView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.InvalidArgument("message content is required")
	}

	conversation, err := s.conversations.GetConversationByID(req.ConversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("conversation not found")
		}
		return nil, apperr.Internal(err)
	}
	if !conversation.HasParticipant(actorID) {
		return nil, apperr.Forbidden("you are not a participant of this conversation")
	}

	sender, err := s.users.GetUserByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       actorID,
		Content:        content,
	}
	if err := s.messages.CreateMessage(message); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.conversations.TouchConversation(conversation.ID, time.Now()); err != nil {
		return nil, apperr.Internal(err)
	}

	recipientID := conversation.UserAID
	if recipientID == actorID {
		recipientID = conversation.UserBID
	}
	notification := &models.Notification{
		Type:        models.NotificationMessage,
		ActorID:     actorID,
		RecipientID: recipientID,
		TargetID:    conversation.ID,
		Message:     sender.Username + " sent you a message",
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		return nil, apperr.Internal(err)
	}

	return &models.MessageView{Message: *message, Sender: sender.ToRef()}, nil
}

// ListMessages lists a conversation's messages oldest first. Only
// participants may read a conversation.
func (s *conversationService) ListMessages(conversationID, actorID uint) ([]models.MessageView, error) {
	conversation, err := s.conversations.GetConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("conversation not found")
		}
		return nil, apperr.Internal(err)
	}
	if !conversation.HasParticipant(actorID) {
		return nil, apperr.Forbidden("you are not a participant of this conversation")
	}

	messages, err := s.messages.GetMessagesByConversation(conversationID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refs, err := s.refsFor([]uint{conversation.UserAID, conversation.UserBID})
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, len(messages))
	for i, m := range messages {
		views[i] = models.MessageView{Message: m, Sender: refs[m.SenderID]}
	}
	return views, nil
}

// EditMessage rewrites the sender's own message.
func (s *conversationService) EditMessage(messageID, actorID uint, content string) (*models.MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("message content is required")
	}

	message, err := s.messages.GetMessageByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message not found")
		}
		return nil, apperr.Internal(err)
	}
	if !Authorize(actorID, message.SenderID) {
		return nil, apperr.Forbidden("you are not authorized to edit this message")
	}

	message.Content = content
	if err := s.messages.UpdateMessage(message); err != nil {
		return nil, apperr.Internal(err)
	}

	sender, err := s.users.GetUserByID(message.SenderID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.MessageView{Message: *message, Sender: sender.ToRef()}, nil
}

// DeleteMessage removes the sender's own message.
func (s *conversationService) DeleteMessage(messageID, actorID uint) error {
	message, err := s.messages.GetMessageByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("message not found")
		}
		return apperr.Internal(err)
	}
	if !Authorize(actorID, message.SenderID) {
		return apperr.Forbidden("you are not authorized to delete this message")
	}
	if err := s.messages.DeleteMessage(messageID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// buildConversationView resolves participants and attaches the latest
// message when one is supplied.
func (s *conversationService) buildConversationView(c *models.Conversation, last *models.Message) (*models.ConversationView, error) {
	refs, err := s.refsFor([]uint{c.UserAID, c.UserBID})
	if err != nil {
		return nil, err
	}
	view := &models.ConversationView{
		ID:           c.ID,
		Participants: []models.UserRef{refs[c.UserAID], refs[c.UserBID]},
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if last != nil {
		view.LastMessage = &models.MessageView{Message: *last, Sender: refs[last.SenderID]}
	}
	return view, nil
}

func (s *conversationService) refsFor(ids []uint) (map[uint]models.UserRef, error) {
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
