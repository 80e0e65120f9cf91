package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"swipe-market/internal/domain"
	"swipe-market/internal/repository"
)

const maxMessageLength = 4000

// MessageService maneja los matches y la conversacion entre sus dos partes.
type MessageService struct {
	matches  repository.MatchRepository
	messages repository.MessageRepository
	now      func() time.Time
}

var ErrMessageServiceNotConfigured = errors.New("message service not configured")

func NewMessageService(matches repository.MatchRepository, messages repository.MessageRepository) *MessageService {
	return &MessageService{
		matches:  matches,
		messages: messages,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListMatches devuelve los matches del usuario segun su rol.
func (s *MessageService) ListMatches(ctx context.Context, user domain.User) ([]domain.Match, error) {
	if s == nil || s.matches == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	var (
		matches []domain.Match
		err     error
	)
	switch user.UserType {
	case domain.UserTypeInvestor:
		matches, err = s.matches.ListByInvestor(ctx, user.ID)
	case domain.UserTypeFounder:
		matches, err = s.matches.ListByFounder(ctx, user.ID)
	default:
		return []domain.Match{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if matches == nil {
		matches = []domain.Match{}
	}
	return matches, nil
}

func (s *MessageService) Send(ctx context.Context, sender domain.User, matchID, content string) (domain.Message, error) {
	if s == nil || s.messages == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxMessageLength {
		return domain.Message{}, fmt.Errorf("%w: message must have between 1 and %d characters", ErrInvalidInput, maxMessageLength)
	}
	if _, err := s.participantMatch(ctx, sender.ID, matchID); err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:        uuid.NewString(),
		MatchID:   matchID,
		SenderID:  sender.ID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (s *MessageService) List(ctx context.Context, user domain.User, matchID string) ([]domain.Message, error) {
	if s == nil || s.messages == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	if _, err := s.participantMatch(ctx, user.ID, matchID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

func (s *MessageService) participantMatch(ctx context.Context, userID, matchID string) (domain.Match, error) {
	match, err := s.matches.GetByID(ctx, strings.TrimSpace(matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Match{}, ErrNotFound
		}
		return domain.Match{}, fmt.Errorf("load match: %w", err)
	}
	if !match.HasParticipant(userID) {
		return domain.Match{}, ErrForbidden
	}
	return match, nil
}
