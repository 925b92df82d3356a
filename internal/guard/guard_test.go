package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

type fakeParams map[string]string

func (p fakeParams) PathValue(name string) string { return p[name] }

const (
	ownerID    = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	strangerID = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"
	resourceID = "6ba7b812-9dad-11d1-80b4-00c04fd430c8"
	missingID  = "6ba7b813-9dad-11d1-80b4-00c04fd430c8"
)

func fetchFrom[T Owned](store map[string]T) func(context.Context, string) (T, error) {
	return func(_ context.Context, id string) (T, error) {
		var zero T
		resource, ok := store[id]
		if !ok {
			return zero, repositories.ErrNotFound
		}
		return resource, nil
	}
}

// runMatrix exercises the four guard outcomes for one entity descriptor. The
// same matrix must hold for every protected entity type.
func runMatrix[T Owned](t *testing.T, d Descriptor[T]) {
	t.Helper()
	ctx := context.Background()

	t.Run("owner is authorized", func(t *testing.T) {
		resource, err := d.Authorize(ctx, fakeParams{d.Param: resourceID}, ownerID)
		if err != nil {
			t.Fatalf("expected authorization, got %v", err)
		}
		if resource.OwnerID() != ownerID {
			t.Fatalf("expected fetched resource owned by %s, got %s", ownerID, resource.OwnerID())
		}
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		if _, err := d.Authorize(ctx, fakeParams{d.Param: resourceID}, strangerID); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		if _, err := d.Authorize(ctx, fakeParams{d.Param: missingID}, ownerID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed id is invalid", func(t *testing.T) {
		if _, err := d.Authorize(ctx, fakeParams{d.Param: "not-a-uuid"}, ownerID); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("missing param is invalid", func(t *testing.T) {
		if _, err := d.Authorize(ctx, fakeParams{}, ownerID); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}

func TestAuthorizeVideo(t *testing.T) {
	store := map[string]models.Video{resourceID: {ID: resourceID, Owner: ownerID}}
	runMatrix(t, Descriptor[models.Video]{Resource: "video", Param: "videoId", Fetch: fetchFrom(store)})
}

func TestAuthorizeComment(t *testing.T) {
	store := map[string]models.Comment{resourceID: {ID: resourceID, Owner: ownerID}}
	runMatrix(t, Descriptor[models.Comment]{Resource: "comment", Param: "commentId", Fetch: fetchFrom(store)})
}

func TestAuthorizeTweet(t *testing.T) {
	store := map[string]models.Tweet{resourceID: {ID: resourceID, Owner: ownerID}}
	runMatrix(t, Descriptor[models.Tweet]{Resource: "tweet", Param: "tweetId", Fetch: fetchFrom(store)})
}

func TestAuthorizePlaylist(t *testing.T) {
	store := map[string]models.Playlist{resourceID: {ID: resourceID, Owner: ownerID}}
	runMatrix(t, Descriptor[models.Playlist]{Resource: "playlist", Param: "playlistId", Fetch: fetchFrom(store)})
}

func TestAuthorizeNormalizesIdentifierCase(t *testing.T) {
	upper := "6BA7B812-9DAD-11D1-80B4-00C04FD430C8"
	store := map[string]models.Tweet{resourceID: {ID: resourceID, Owner: ownerID}}
	d := Descriptor[models.Tweet]{Resource: "tweet", Param: "tweetId", Fetch: fetchFrom(store)}

	resource, err := d.Authorize(context.Background(), fakeParams{"tweetId": upper}, ownerID)
	if err != nil {
		t.Fatalf("expected case-insensitive match, got %v", err)
	}
	if resource.ID != resourceID {
		t.Fatalf("expected resource %s, got %s", resourceID, resource.ID)
	}
}

func TestAuthorizePropagatesStoreFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	d := Descriptor[models.Video]{
		Resource: "video",
		Param:    "videoId",
		Fetch: func(context.Context, string) (models.Video, error) {
			return models.Video{}, storeErr
		},
	}

	_, err := d.Authorize(context.Background(), fakeParams{"videoId": resourceID}, ownerID)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
		t.Fatalf("store failure must not masquerade as an authorization verdict: %v", err)
	}
}
