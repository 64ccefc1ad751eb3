package service

import (
	"bytes"
	"context"
	"sort"
	"time"

	"collabotree-be/internal/entity"
	"collabotree-be/internal/repository/contract"
	"collabotree-be/internal/repository/specification"
	"collabotree-be/internal/repository/unitofwork"
	"collabotree-be/pkg/events"

	"github.com/google/uuid"
)

// fakeStore backs the in-memory repositories. It interprets the same
// specifications the gorm implementations translate to SQL, so the
// services under test run their real query paths.
type fakeStore struct {
	hires    map[uuid.UUID]*entity.HireRequest
	rooms    map[uuid.UUID]*entity.ChatRoom // keyed by hire request id
	messages []*entity.Message
	reads    map[string]*entity.MessageRead // keyed by message id + user id
	users    map[uuid.UUID]*entity.User

	// beforeCreateRoom runs before every room insert, letting tests slip a
	// competing writer in to exercise the creation race.
	beforeCreateRoom func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hires: make(map[uuid.UUID]*entity.HireRequest),
		rooms: make(map[uuid.UUID]*entity.ChatRoom),
		reads: make(map[string]*entity.MessageRead),
		users: make(map[uuid.UUID]*entity.User),
	}
}

func readKey(messageID, userID uuid.UUID) string {
	return messageID.String() + ":" + userID.String()
}

func (s *fakeStore) addHire(buyerID, studentID uuid.UUID, status string) *entity.HireRequest {
	hire := &entity.HireRequest{
		Id:           uuid.New(),
		BuyerId:      buyerID,
		StudentId:    studentID,
		ServiceTitle: "Landing page design",
		Status:       status,
		CreatedAt:    time.Now(),
	}
	s.hires[hire.Id] = hire
	return hire
}

func (s *fakeStore) addUser(name string) *entity.User {
	user := &entity.User{Id: uuid.New(), FullName: name, Email: name + "@test", Role: "user"}
	s.users[user.Id] = user
	return user
}

func (s *fakeStore) addRoom(hireRequestID uuid.UUID) *entity.ChatRoom {
	room := &entity.ChatRoom{Id: uuid.New(), HireRequestId: hireRequestID, CreatedAt: time.Now()}
	s.rooms[hireRequestID] = room
	return room
}

func (s *fakeStore) addMessage(roomID, senderID uuid.UUID, body string, createdAt time.Time) *entity.Message {
	msg := &entity.Message{
		Id:         uuid.New(),
		ChatRoomId: roomID,
		SenderId:   senderID,
		Body:       body,
		CreatedAt:  createdAt,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// --- repositories ---

type fakeChatRoomRepo struct{ store *fakeStore }

func (r *fakeChatRoomRepo) Create(_ context.Context, room *entity.ChatRoom) error {
	if r.store.beforeCreateRoom != nil {
		r.store.beforeCreateRoom()
	}
	if _, exists := r.store.rooms[room.HireRequestId]; exists {
		return contract.ErrDuplicate
	}
	r.store.rooms[room.HireRequestId] = room
	return nil
}

func (r *fakeChatRoomRepo) FindByHireRequestID(_ context.Context, hireRequestID uuid.UUID) (*entity.ChatRoom, error) {
	return r.store.rooms[hireRequestID], nil
}

type fakeHireRequestRepo struct{ store *fakeStore }

func (r *fakeHireRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.HireRequest, error) {
	return r.store.hires[id], nil
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.store.users[id], nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.store.users)), nil
}

type fakeMessageReadRepo struct{ store *fakeStore }

func (r *fakeMessageReadRepo) CreateIgnoreDuplicates(_ context.Context, reads []*entity.MessageRead) error {
	for _, read := range reads {
		key := readKey(read.MessageId, read.UserId)
		if _, exists := r.store.reads[key]; exists {
			continue
		}
		r.store.reads[key] = read
	}
	return nil
}

func (r *fakeMessageReadRepo) Exists(_ context.Context, messageID, userID uuid.UUID) (bool, error) {
	_, exists := r.store.reads[readKey(messageID, userID)]
	return exists, nil
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(_ context.Context, message *entity.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.store.messages = append(r.store.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, err := r.FindAll(ctx, specs...)
	return int64(len(matches)), err
}

func (r *fakeMessageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	matches := append([]*entity.Message(nil), r.store.messages...)
	limit := -1
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			matches = filterMessages(matches, func(m *entity.Message) bool { return m.Id == s.ID })
		case specification.ByChatRoomID:
			matches = filterMessages(matches, func(m *entity.Message) bool { return m.ChatRoomId == s.ChatRoomID })
		case specification.CreatedBefore:
			matches = filterMessages(matches, func(m *entity.Message) bool {
				return tupleBefore(m, s.CreatedAt, s.ID)
			})
		case specification.UnreadBy:
			matches = filterMessages(matches, func(m *entity.Message) bool {
				if m.SenderId == s.UserID {
					return false
				}
				_, read := r.store.reads[readKey(m.Id, s.UserID)]
				return !read
			})
		case specification.NewestFirst:
			sort.Slice(matches, func(i, j int) bool {
				if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
					return matches[i].CreatedAt.After(matches[j].CreatedAt)
				}
				return bytes.Compare(matches[i].Id[:], matches[j].Id[:]) > 0
			})
		case specification.Limit:
			limit = s.Limit
		}
	}
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func filterMessages(in []*entity.Message, keep func(*entity.Message) bool) []*entity.Message {
	out := in[:0]
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func tupleBefore(m *entity.Message, createdAt time.Time, id uuid.UUID) bool {
	if !m.CreatedAt.Equal(createdAt) {
		return m.CreatedAt.Before(createdAt)
	}
	return bytes.Compare(m.Id[:], id[:]) < 0
}

// --- unit of work ---

type fakeUnitOfWork struct{ store *fakeStore }

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error               { return nil }
func (u *fakeUnitOfWork) Rollback() error             { return nil }

func (u *fakeUnitOfWork) ChatRoomRepository() contract.ChatRoomRepository {
	return &fakeChatRoomRepo{store: u.store}
}

func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{store: u.store}
}

func (u *fakeUnitOfWork) MessageReadRepository() contract.MessageReadRepository {
	return &fakeMessageReadRepo{store: u.store}
}

func (u *fakeUnitOfWork) HireRequestRepository() contract.HireRequestRepository {
	return &fakeHireRequestRepo{store: u.store}
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

var _ unitofwork.RepositoryFactory = (*fakeFactory)(nil)

// --- collaborators ---

type recordingBus struct {
	published []*events.ChatEvent
	err       error
}

func (b *recordingBus) PublishChatEvent(_ context.Context, event *events.ChatEvent) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, event)
	return nil
}

type recordedNotification struct {
	UserID   uuid.UUID
	TypeCode string
}

type recordingNotifier struct {
	sent []recordedNotification
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, typeCode, _, _ string) {
	n.sent = append(n.sent, recordedNotification{UserID: userID, TypeCode: typeCode})
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
