package impl

import (
	"context"
	"strings"
	"sync"
	"time"

	"campusconnect/internal/domain/entity"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// In-memory fakes shared by the service tests. Each fake implements just
// enough of its interface to drive the flows under test.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User

	setHashErr error
	createErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) add(user *entity.User) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)
	f.users[user.ID] = user

	return user
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.users[id]; ok {
		copied := *user

		return &copied, nil
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	found := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			copied := *user
			found = append(found, &copied)
		}
	}

	return found, nil
}

func (f *fakeUserRepo) Search(_ context.Context, query string, limit int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	results := make([]*entity.User, 0)
	for _, user := range f.users {
		if len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(user.Name), needle) ||
			strings.Contains(user.Email, needle) {
			copied := *user
			results = append(results, &copied)
		}
	}

	return results, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.add(user)

	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	for column, value := range fields {
		text, _ := value.(string)
		switch column {
		case "name":
			user.Name = text
		case "bio":
			user.Bio = text
		case "portfolio_link":
			user.PortfolioLink = text
		case "linkedin_link":
			user.LinkedinLink = text
		case "github_link":
			user.GithubLink = text
		case "leetcode_link":
			user.LeetcodeLink = text
		case "profile_photo":
			user.ProfilePhoto = text
		}
	}

	return nil
}

func (f *fakeUserRepo) SetRefreshTokenHash(_ context.Context, id uuid.UUID, hash *string) error {
	if f.setHashErr != nil {
		return f.setHashErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.RefreshTokenHash = hash

	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)

	return nil
}

func (f *fakeUserRepo) storedHash(id uuid.UUID) *string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.users[id]; ok {
		return user.RefreshTokenHash
	}

	return nil
}

type fakeStudentRepo struct {
	students map[string]*entity.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*entity.Student)}
}

func (f *fakeStudentRepo) add(student *entity.Student) {
	f.students[strings.ToLower(student.Email)] = student
}

func (f *fakeStudentRepo) FindByEmail(_ context.Context, email string) (*entity.Student, error) {
	if student, ok := f.students[strings.ToLower(email)]; ok {
		return student, nil
	}

	return nil, repository.ErrStudentNotFound
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*entity.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]*entity.Post)}
}

func (f *fakePostRepo) add(post *entity.Post) *entity.Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	f.posts[post.ID] = post

	return post
}

func (f *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if post, ok := f.posts[id]; ok {
		copied := *post

		return &copied, nil
	}

	return nil, repository.ErrPostNotFound
}

func (f *fakePostRepo) FindLatest(_ context.Context, limit int) ([]*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	posts := make([]*entity.Post, 0, len(f.posts))
	for _, post := range f.posts {
		copied := *post
		posts = append(posts, &copied)
	}
	for i := 0; i < len(posts); i++ {
		for j := i + 1; j < len(posts); j++ {
			if posts[j].CreatedAt.After(posts[i].CreatedAt) {
				posts[i], posts[j] = posts[j], posts[i]
			}
		}
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}

	return posts, nil
}

func (f *fakePostRepo) Create(_ context.Context, post *entity.Post) error {
	f.add(post)

	return nil
}

func (f *fakePostRepo) AddLike(_ context.Context, postID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return repository.ErrPostNotFound
	}
	if !post.IsLikedBy(userID) {
		post.Likes = append(post.Likes, userID)
	}

	return nil
}

func (f *fakePostRepo) RemoveLike(_ context.Context, postID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return repository.ErrPostNotFound
	}
	kept := post.Likes[:0]
	for _, id := range post.Likes {
		if id != userID {
			kept = append(kept, id)
		}
	}
	post.Likes = kept

	return nil
}

func (f *fakePostRepo) AddComment(_ context.Context, comment *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[comment.PostID]
	if !ok {
		return repository.ErrPostNotFound
	}
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	post.Comments = append(post.Comments, *comment)

	return nil
}

func (f *fakePostRepo) AddShares(_ context.Context, postID uuid.UUID, userIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return repository.ErrPostNotFound
	}
	for _, userID := range userIDs {
		if !post.IsSharedWith(userID) {
			post.SharedWith = append(post.SharedWith, userID)
		}
	}

	return nil
}

type fakeConnectionRepo struct {
	mu    sync.Mutex
	edges []*entity.Connection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{}
}

func (f *fakeConnectionRepo) Create(_ context.Context, conn *entity.Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, edge := range f.edges {
		if edge.UserID == conn.UserID && edge.ConnectedUserID == conn.ConnectedUserID {
			return repository.ErrConnectionExists
		}
	}
	conn.ID = uuid.New()
	f.edges = append(f.edges, conn)

	return nil
}

func (f *fakeConnectionRepo) Exists(_ context.Context, a, b uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	first, second := entity.OrderedPair(a, b)
	for _, edge := range f.edges {
		if edge.UserID == first && edge.ConnectedUserID == second {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeConnectionRepo) CountForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, edge := range f.edges {
		if edge.UserID == userID || edge.ConnectedUserID == userID {
			count++
		}
	}

	return count, nil
}

func (f *fakeConnectionRepo) PeerIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	peers := make([]uuid.UUID, 0)
	for _, edge := range f.edges {
		switch userID {
		case edge.UserID:
			peers = append(peers, edge.ConnectedUserID)
		case edge.ConnectedUserID:
			peers = append(peers, edge.UserID)
		}
	}

	return peers, nil
}

func (f *fakeConnectionRepo) DeleteForUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.edges[:0]
	for _, edge := range f.edges {
		if edge.UserID != userID && edge.ConnectedUserID != userID {
			kept = append(kept, edge)
		}
	}
	f.edges = kept

	return nil
}

type fakeConversationRepo struct {
	mu       sync.Mutex
	convs    map[uuid.UUID]*entity.Conversation
	messages map[uuid.UUID][]*entity.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		convs:    make(map[uuid.UUID]*entity.Conversation),
		messages: make(map[uuid.UUID][]*entity.Message),
	}
}

func (f *fakeConversationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if conv, ok := f.convs[id]; ok {
		copied := *conv

		return &copied, nil
	}

	return nil, repository.ErrConversationNotFound
}

func (f *fakeConversationRepo) FindForUser(_ context.Context, userID uuid.UUID) ([]*entity.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	convs := make([]*entity.Conversation, 0)
	for _, conv := range f.convs {
		if conv.HasParticipant(userID) {
			copied := *conv
			convs = append(convs, &copied)
		}
	}
	for i := 0; i < len(convs); i++ {
		for j := i + 1; j < len(convs); j++ {
			if convs[j].LastMessageAt.After(convs[i].LastMessageAt) {
				convs[i], convs[j] = convs[j], convs[i]
			}
		}
	}

	return convs, nil
}

func (f *fakeConversationRepo) FindDirect(_ context.Context, a, b uuid.UUID) (*entity.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, conv := range f.convs {
		if !conv.IsGroup && len(conv.Participants) == 2 &&
			conv.HasParticipant(a) && conv.HasParticipant(b) {
			copied := *conv

			return &copied, nil
		}
	}

	return nil, repository.ErrConversationNotFound
}

func (f *fakeConversationRepo) Create(_ context.Context, conv *entity.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	conv.ID = uuid.New()
	conv.CreatedAt = time.Now()
	conv.LastMessageAt = conv.CreatedAt
	f.convs[conv.ID] = conv

	return nil
}

func (f *fakeConversationRepo) CreateMessage(_ context.Context, msg *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	conv, ok := f.convs[msg.ConversationID]
	if !ok {
		return repository.ErrConversationNotFound
	}
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	f.messages[conv.ID] = append(f.messages[conv.ID], msg)
	conv.LastMessage = msg
	conv.LastMessageAt = msg.CreatedAt

	return nil
}

func (f *fakeConversationRepo) FindMessages(_ context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msgs := f.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	copied := make([]*entity.Message, len(msgs))
	copy(copied, msgs)

	return copied, nil
}

// fakeRepoFactory hands the same fakes back for transactional and direct use.
type fakeRepoFactory struct {
	userRepo         *fakeUserRepo
	studentRepo      *fakeStudentRepo
	postRepo         *fakePostRepo
	connectionRepo   *fakeConnectionRepo
	conversationRepo *fakeConversationRepo
}

func newFakeRepoFactory() *fakeRepoFactory {
	return &fakeRepoFactory{
		userRepo:         newFakeUserRepo(),
		studentRepo:      newFakeStudentRepo(),
		postRepo:         newFakePostRepo(),
		connectionRepo:   newFakeConnectionRepo(),
		conversationRepo: newFakeConversationRepo(),
	}
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository             { return f.userRepo }
func (f *fakeRepoFactory) StudentRepo() repository.StudentRepository       { return f.studentRepo }
func (f *fakeRepoFactory) PostRepo() repository.PostRepository             { return f.postRepo }
func (f *fakeRepoFactory) ConnectionRepo() repository.ConnectionRepository { return f.connectionRepo }
func (f *fakeRepoFactory) ConversationRepo() repository.ConversationRepository {
	return f.conversationRepo
}

type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f.factory)
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService mints readable tokens and tracks what it issued so
// verification can hand back the right claims.
type fakeTokenService struct {
	mu      sync.Mutex
	counter int
	issued  map[string]service.Claims

	issueRefreshErr error
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{issued: make(map[string]service.Claims)}
}

func (f *fakeTokenService) mint(kind string, userID uuid.UUID, email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counter++
	token := kind + "-" + userID.String() + "-" + time.Now().Format("150405.000000000") + "-" + string(rune('a'+f.counter%26))
	f.issued[token] = service.Claims{UserID: userID, Email: email, Type: kind}

	return token
}

func (f *fakeTokenService) IssueAccessToken(userID uuid.UUID, email string) (string, error) {
	return f.mint("access", userID, email), nil
}

func (f *fakeTokenService) IssueRefreshToken(userID uuid.UUID, email string) (string, error) {
	if f.issueRefreshErr != nil {
		return "", f.issueRefreshErr
	}

	return f.mint("refresh", userID, email), nil
}

func (f *fakeTokenService) verify(token, kind string) (*service.Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	claims, ok := f.issued[token]
	if !ok || claims.Type != kind {
		return nil, errors.New("token is invalid")
	}

	return &claims, nil
}

func (f *fakeTokenService) VerifyAccess(token string) (*service.Claims, error) {
	return f.verify(token, "access")
}

func (f *fakeTokenService) VerifyRefresh(token string) (*service.Claims, error) {
	return f.verify(token, "refresh")
}

func (f *fakeTokenService) HashToken(raw string) string {
	return "sha:" + raw
}

func (f *fakeTokenService) RefreshTokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

type publishedEvent struct {
	room    string
	event   string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) PublishToUser(userID uuid.UUID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, publishedEvent{room: "user:" + userID.String(), event: event, payload: payload})
}

func (f *fakePublisher) PublishToConversation(conversationID uuid.UUID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, publishedEvent{room: "conversation:" + conversationID.String(), event: event, payload: payload})
}

func (f *fakePublisher) byEvent(event string) []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]publishedEvent, 0)
	for _, e := range f.events {
		if e.event == event {
			matched = append(matched, e)
		}
	}

	return matched
}
