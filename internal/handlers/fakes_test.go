package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
	"github.com/videotube/backend/internal/repositories"
)

// Fixed identities shared across the handler tests.
const (
	aliceID = "7c9a1a30-9a2f-4b52-8f7a-02d1a4f86a01"
	bobID   = "d4f6f9b2-1c3e-4a2b-9d8e-55aa10c2be02"
	carolID = "0b2f6c7d-8e91-4f30-a1b2-c3d4e5f6a703"
)

var errBoom = errors.New("backing store unavailable")

func fixedNow() time.Time {
	return time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, into any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, into); err != nil {
		t.Fatalf("decode envelope data: %v", err)
	}
}

type fakeUserStore struct {
	users     map[string]models.User
	createErr error
	findErr   error
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[string]models.User)}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	if s.findErr != nil {
		return models.User{}, s.findErr
	}
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	if s.findErr != nil {
		return models.User{}, s.findErr
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	if s.findErr != nil {
		return models.User{}, s.findErr
	}
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, existing := range s.users {
		if existing.ID == user.ID {
			continue
		}
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	s.users[id] = user
	return nil
}

type stubSessionManager struct {
	tokens     models.SessionTokens
	issueErr   error
	refreshErr error
	issued     []string
	revoked    []string
}

func (s *stubSessionManager) Issue(_ context.Context, userID string) (models.SessionTokens, error) {
	if s.issueErr != nil {
		return models.SessionTokens{}, s.issueErr
	}
	s.issued = append(s.issued, userID)
	return s.tokens, nil
}

func (s *stubSessionManager) Refresh(_ context.Context, _ string) (models.SessionTokens, error) {
	if s.refreshErr != nil {
		return models.SessionTokens{}, s.refreshErr
	}
	return s.tokens, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, refreshToken string) {
	s.revoked = append(s.revoked, refreshToken)
}

type fakeVideoStore struct {
	videos       map[string]models.Video
	owners       map[string]models.Owner
	viewed       []string
	createErr    error
	listErr      error
	incrementErr error
	deleted      []string
}

func newFakeVideoStore(videos ...models.Video) *fakeVideoStore {
	store := &fakeVideoStore{
		videos: make(map[string]models.Video),
		owners: make(map[string]models.Owner),
	}
	for _, v := range videos {
		store.videos[v.ID] = v
	}
	return store
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *fakeVideoStore) Update(_ context.Context, video models.Video) error {
	if _, ok := s.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) SetPublished(_ context.Context, id string, published bool) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.IsPublished = published
	s.videos[id] = video
	return nil
}

func (s *fakeVideoStore) Delete(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeVideoStore) IncrementViews(_ context.Context, id string) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	s.viewed = append(s.viewed, id)
	return nil
}

func (s *fakeVideoStore) ListPage(_ context.Context, filter repositories.VideoFilter, page query.PageRequest, _ repositories.VideoSort) ([]models.VideoWithOwner, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}

	matched := make([]models.VideoWithOwner, 0)
	for _, v := range s.videos {
		if filter.OwnerID != "" && v.Owner != filter.OwnerID {
			continue
		}
		if filter.PublishedOnly && !v.IsPublished {
			continue
		}
		matched = append(matched, models.VideoWithOwner{Video: v, OwnerDetails: s.owners[v.Owner]})
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		return []models.VideoWithOwner{}, total, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type fakeCommentStore struct {
	comments  map[string]models.Comment
	createErr error
	listErr   error
}

func newFakeCommentStore(comments ...models.Comment) *fakeCommentStore {
	store := &fakeCommentStore{comments: make(map[string]models.Comment)}
	for _, c := range comments {
		store.comments[c.ID] = c
	}
	return store
}

func (s *fakeCommentStore) Create(_ context.Context, comment models.Comment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentStore) UpdateContent(_ context.Context, id, content string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	s.comments[id] = comment
	return comment, nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *fakeCommentStore) ListForVideo(_ context.Context, videoID string, page query.PageRequest) ([]models.CommentWithOwner, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	matched := make([]models.CommentWithOwner, 0)
	for _, c := range s.comments {
		if c.VideoID == videoID {
			matched = append(matched, models.CommentWithOwner{Comment: c})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	return paginate(matched, page), int64(len(matched)), nil
}

type fakeTweetStore struct {
	tweets    map[string]models.Tweet
	createErr error
}

func newFakeTweetStore(tweets ...models.Tweet) *fakeTweetStore {
	store := &fakeTweetStore{tweets: make(map[string]models.Tweet)}
	for _, tw := range tweets {
		store.tweets[tw.ID] = tw
	}
	return store
}

func (s *fakeTweetStore) Create(_ context.Context, tweet models.Tweet) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s *fakeTweetStore) FindByID(_ context.Context, id string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *fakeTweetStore) UpdateContent(_ context.Context, id, content string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	tweet.Content = content
	s.tweets[id] = tweet
	return tweet, nil
}

func (s *fakeTweetStore) Delete(_ context.Context, id string) error {
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

func (s *fakeTweetStore) ListForUser(_ context.Context, userID string, page query.PageRequest) ([]models.TweetWithOwner, int64, error) {
	matched := make([]models.TweetWithOwner, 0)
	for _, tw := range s.tweets {
		if tw.Owner == userID {
			matched = append(matched, models.TweetWithOwner{Tweet: tw})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, page), int64(len(matched)), nil
}

type fakeLikeStore struct {
	liked     map[string]bool
	videos    []models.VideoWithOwner
	toggleErr error
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{liked: make(map[string]bool)}
}

func likeKey(userID string, target models.LikeTarget) string {
	return fmt.Sprintf("%s/%s/%s", userID, target.Kind, target.ID)
}

func (s *fakeLikeStore) Toggle(_ context.Context, userID string, target models.LikeTarget) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	key := likeKey(userID, target)
	if s.liked[key] {
		delete(s.liked, key)
		return false, nil
	}
	s.liked[key] = true
	return true, nil
}

func (s *fakeLikeStore) ListLikedVideos(_ context.Context, _ string, page query.PageRequest) ([]models.VideoWithOwner, int64, error) {
	return paginate(s.videos, page), int64(len(s.videos)), nil
}

type fakeSubscriptionStore struct {
	subscribed map[string]bool
	members    map[string][]models.Owner
	toggleErr  error
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{
		subscribed: make(map[string]bool),
		members:    make(map[string][]models.Owner),
	}
}

func (s *fakeSubscriptionStore) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	key := subscriberID + "/" + channelID
	if s.subscribed[key] {
		delete(s.subscribed, key)
		return false, nil
	}
	s.subscribed[key] = true
	return true, nil
}

func (s *fakeSubscriptionStore) ListSubscribers(_ context.Context, channelID string) ([]models.Owner, int64, error) {
	members := s.members[channelID]
	return members, int64(len(members)), nil
}

func (s *fakeSubscriptionStore) ListChannels(_ context.Context, subscriberID string) ([]models.Owner, int64, error) {
	members := s.members[subscriberID]
	return members, int64(len(members)), nil
}

type fakePlaylistStore struct {
	playlists map[string]models.Playlist
	videos    map[string][]string
	withOwner map[string]models.VideoWithOwner
	addErr    error
}

func newFakePlaylistStore(playlists ...models.Playlist) *fakePlaylistStore {
	store := &fakePlaylistStore{
		playlists: make(map[string]models.Playlist),
		videos:    make(map[string][]string),
		withOwner: make(map[string]models.VideoWithOwner),
	}
	for _, p := range playlists {
		store.playlists[p.ID] = p
	}
	return store
}

func (s *fakePlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *fakePlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *fakePlaylistStore) FindByIDWithVideos(ctx context.Context, id string) (models.PlaylistWithVideos, error) {
	playlist, err := s.FindByID(ctx, id)
	if err != nil {
		return models.PlaylistWithVideos{}, err
	}
	videos := make([]models.VideoWithOwner, 0, len(s.videos[id]))
	for _, videoID := range s.videos[id] {
		videos = append(videos, s.withOwner[videoID])
	}
	return models.PlaylistWithVideos{Playlist: playlist, Videos: videos}, nil
}

func (s *fakePlaylistStore) Update(_ context.Context, playlist models.Playlist) error {
	if _, ok := s.playlists[playlist.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *fakePlaylistStore) Delete(_ context.Context, id string) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

func (s *fakePlaylistStore) AddVideo(_ context.Context, playlistID, videoID string) error {
	if s.addErr != nil {
		return s.addErr
	}
	for _, existing := range s.videos[playlistID] {
		if existing == videoID {
			return repositories.ErrConflict
		}
	}
	s.videos[playlistID] = append(s.videos[playlistID], videoID)
	return nil
}

func (s *fakePlaylistStore) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	existing := s.videos[playlistID]
	for i, id := range existing {
		if id == videoID {
			s.videos[playlistID] = append(existing[:i], existing[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *fakePlaylistStore) ListForUser(_ context.Context, userID string, page query.PageRequest) ([]models.Playlist, int64, error) {
	matched := make([]models.Playlist, 0)
	for _, p := range s.playlists {
		if p.Owner == userID {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, page), int64(len(matched)), nil
}

type stubStatsCollector struct {
	stats models.ChannelStats
	err   error
	calls []string
}

func (s *stubStatsCollector) ChannelStats(_ context.Context, channelID string) (models.ChannelStats, error) {
	s.calls = append(s.calls, channelID)
	if s.err != nil {
		return models.ChannelStats{}, s.err
	}
	return s.stats, nil
}

type fakeMediaStore struct {
	saved   []string
	deleted []string
	err     error
}

func (s *fakeMediaStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.saved = append(s.saved, name)
	return "https://media.test/" + name, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, key)
	return nil
}

type stubLimiter struct {
	allow bool
	keys  []string
}

func (s *stubLimiter) Allow(key string) bool {
	s.keys = append(s.keys, key)
	return s.allow
}

// newRequest builds a handler-level request with the caller identity and path
// parameters the middleware and mux would normally attach.
func newRequest(t *testing.T, method, target string, body any, callerID string, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if callerID != "" {
		req = req.WithContext(middleware.WithCallerID(req.Context(), callerID))
	}
	for name, value := range params {
		req.SetPathValue(name, value)
	}
	return req
}

func paginate[T any](items []T, page query.PageRequest) []T {
	start := page.Offset()
	if start > len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
